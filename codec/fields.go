package codec

import (
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/disgoorg/snowflake/v2"
)

// Snowflakes arrive as decimal strings on the wire.

func requiredID(js *simplejson.Json, record, field string) (snowflake.ID, error) {
	raw, ok := js.CheckGet(field)
	if !ok {
		return 0, missingField(record, field)
	}
	s, err := raw.String()
	if err != nil {
		return 0, badField(record, field, err)
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0, badField(record, field, err)
	}
	return id, nil
}

// optionalID returns 0 when the field is absent or null.
func optionalID(js *simplejson.Json, field string) snowflake.ID {
	s := js.Get(field).MustString()
	if s == "" {
		return 0
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0
	}
	return id
}

func requiredString(js *simplejson.Json, record, field string) (string, error) {
	raw, ok := js.CheckGet(field)
	if !ok {
		return "", missingField(record, field)
	}
	s, err := raw.String()
	if err != nil {
		return "", badField(record, field, err)
	}
	return s, nil
}

func optionalTime(js *simplejson.Json, field string) time.Time {
	s := js.Get(field).MustString()
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// idList parses an array of snowflake strings, silently dropping entries
// that do not parse.
func idList(js *simplejson.Json, field string) []snowflake.ID {
	arr := js.Get(field).MustArray()
	ids := make([]snowflake.ID, 0, len(arr))
	for i := range arr {
		s := js.Get(field).GetIndex(i).MustString()
		if s == "" {
			continue
		}
		id, err := snowflake.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

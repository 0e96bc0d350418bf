package custom_http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bitly/go-simplejson"
	"github.com/fuad-daoud/discord-state/logger/dlog"
)

type Client interface {
	DoJson(req *http.Request) (*simplejson.Json, error)
	Do(req *http.Request) ([]byte, error)
	MakeRequest(method string, path string, data *strings.Reader) (*http.Request, error)
	GetRequest(path string) (*http.Request, error)
	PostRequest(path string, data *strings.Reader) (*http.Request, error)
}

type StatusError struct {
	Status string
	Code   int
	URL    string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %s url: %s", e.Status, e.URL)
}

type DefaultClient struct {
	Client  *http.Client
	BaseURL string
	Headers map[string]string
}

func (dc *DefaultClient) DoJson(req *http.Request) (*simplejson.Json, error) {
	body, err := dc.Do(req)
	if err != nil {
		return nil, err
	}
	js, err := simplejson.NewJson(body)
	if err != nil {
		dlog.Error("Can not unmarshal JSON", "url", req.URL.Path, "err", err)
		return nil, err
	}
	return js, nil
}

func (dc *DefaultClient) Do(req *http.Request) ([]byte, error) {
	resp, err := dc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{
			Status: resp.Status,
			Code:   resp.StatusCode,
			URL:    req.URL.String(),
			Body:   body,
		}
	}
	return body, nil
}

func (dc *DefaultClient) MakeRequest(method string, path string, data *strings.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, dc.BaseURL+path, data)
	if err != nil {
		return nil, err
	}
	dc.setHeaders(req)
	return req, nil
}

func (dc *DefaultClient) GetRequest(path string) (*http.Request, error) {
	return dc.MakeRequest("GET", path, strings.NewReader(""))
}

func (dc *DefaultClient) PostRequest(path string, data *strings.Reader) (*http.Request, error) {
	return dc.MakeRequest("POST", path, data)
}

func (dc *DefaultClient) setHeaders(req *http.Request) {
	for k, v := range dc.Headers {
		req.Header.Set(k, v)
	}
}

package models

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// Context holds the request being served and the writer for its response
type Context struct {
	Request        *http.Request
	ResponseWriter http.ResponseWriter
	RouteVars      map[string]string
	StartTime      time.Time
}

// StandardResponse wraps every response body
type StandardResponse struct {
	Context string      `json:"context"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"error"`
}

// MakeContext prepares the context for a request
func MakeContext(request *http.Request, responseWriter http.ResponseWriter) *Context {
	c := new(Context)
	c.Request = request
	c.ResponseWriter = responseWriter
	c.RouteVars = mux.Vars(request)
	c.StartTime = time.Now()

	return c
}

// GetHTTPMethod returns the request method, honouring a method override on
// POST requests
func (c *Context) GetHTTPMethod() string {
	m := c.Request.Method

	if m == "POST" {
		if c.Request.Header.Get("X-HTTP-Method-Override") != "" {
			m = strings.ToUpper(c.Request.Header.Get("X-HTTP-Method-Override"))
		}
		if c.Request.URL.Query().Get("method") != "" {
			m = strings.ToUpper(c.Request.URL.Query().Get("method"))
		}

		switch m {
		case "DELETE":
		case "GET":
		case "HEAD":
		case "OPTIONS":
		case "PATCH":
		case "POST":
		case "PUT":
		default:
			// If it wasn't one of the above then let's just use what we know
			// is safe
			return c.Request.Method
		}
	}

	return m
}

// Respond writes data wrapped in a StandardResponse
func (c *Context) Respond(
	data interface{},
	statusCode int,
	errors []string,
) error {

	// make the standard response object
	obj := StandardResponse{
		Context: c.Request.URL.Query().Get("context"),
		Status:  statusCode,
		Data:    data,
		Errors:  errors,
	}

	c.ResponseWriter.Header().Set("Content-Type", "application/json")
	c.ResponseWriter.Header().Set("Access-Control-Allow-Origin", "*")

	// Item reads must reflect the last write; staleness is the server cache's
	// business only
	c.ResponseWriter.Header().Set(`Cache-Control`, `no-cache, max-age=0`)

	output, err := json.Marshal(obj)
	if err != nil {
		http.Error(c.ResponseWriter, err.Error(), http.StatusInternalServerError)
		return err
	}

	// Prevent chunking
	c.ResponseWriter.Header().Set("Content-Length", strconv.Itoa(len(output)))

	if glog.V(2) {
		glog.Infof(
			"%s %s %d %s",
			c.GetHTTPMethod(),
			c.Request.URL.Path,
			statusCode,
			time.Since(c.StartTime),
		)
	}

	return c.WriteResponse(output, statusCode)
}

// WriteResponse ultimately does the job of writing the response
func (c *Context) WriteResponse(output []byte, statusCode int) error {
	c.ResponseWriter.WriteHeader(statusCode)

	// HEAD requests return no body
	if c.GetHTTPMethod() == "HEAD" {
		return nil
	}

	_, err := c.ResponseWriter.Write(output)

	// We only log at error severity when an error is not the result of the
	// client disconnecting. "broken pipe" is a syscall.EPIPE error that
	// indicates client disconnection.
	if err != nil {
		opErr, ok := err.(*net.OpError)
		if !ok || opErr.Err != syscall.EPIPE {
			glog.Errorf(
				"Error writing %s response to %s : %+v\n",
				c.GetHTTPMethod(),
				c.Request.URL.String(),
				err,
			)
			return err
		}

		glog.Warningf(
			"Error writing %s response to %s : %+v\n",
			c.GetHTTPMethod(),
			c.Request.URL.String(),
			err,
		)
		return err
	}

	return nil
}

// RespondWithOptions lists the allowed methods
func (c *Context) RespondWithOptions(options []string) error {
	c.ResponseWriter.Header().Set("Allow", strings.Join(options, ","))
	c.ResponseWriter.Header().Set("Content-Length", "0")
	c.ResponseWriter.WriteHeader(http.StatusOK)
	return nil
}

// RespondWithStatus responds with custom status code and an empty
// StandardResponse
func (c *Context) RespondWithStatus(statusCode int) error {
	return c.Respond(nil, statusCode, nil)
}

// RespondWithError responds with the status code and its description
func (c *Context) RespondWithError(statusCode int) error {
	return c.RespondWithErrorMessage(http.StatusText(statusCode), statusCode)
}

// RespondWithErrorMessage responds with custom code and an error message
func (c *Context) RespondWithErrorMessage(
	message string,
	statusCode int,
) error {

	return c.Respond(nil, statusCode, []string{message})
}

// RespondWithErrorDetail responds with detailed error code and message in the
// "data" object
func (c *Context) RespondWithErrorDetail(err error, statusCode int) error {
	if statusCode >= http.StatusInternalServerError {
		glog.Errorf("%s %s: %+v", c.GetHTTPMethod(), c.Request.URL.Path, err)
	}
	return c.Respond(err, statusCode, []string{err.Error()})
}

// RespondWithData responds with the specified data
func (c *Context) RespondWithData(data interface{}) error {
	return c.Respond(data, http.StatusOK, nil)
}

// Fill decodes a JSON request body into v
func (c *Context) Fill(v interface{}) error {
	ct := strings.TrimSpace(strings.Split(c.Request.Header.Get("Content-Type"), ";")[0])
	if ct != "" && ct != "application/json" {
		return fmt.Errorf("cannot decode request for %s data", ct)
	}

	defer c.Request.Body.Close()
	return json.NewDecoder(c.Request.Body).Decode(v)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/launchsync/launchsync/pkg/caller"
)

var headers = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// respond writes v as a JSON body
func respond(code int, v interface{}) events.APIGatewayProxyResponse {

	body, err := json.Marshal(v)
	if err != nil {
		return respondError(http.StatusInternalServerError, "could not marshal response: "+err.Error())
	}

	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    headers,
		Body:       string(body),
	}
}

// respondError writes {"error": msg}
func respondError(code int, msg string) events.APIGatewayProxyResponse {

	body, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})

	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    headers,
		Body:       string(body),
	}
}

// statusFor passes an upstream status code through, anything else is a 500
func statusFor(err error) int {
	var ce *caller.Error
	if errors.As(err, &ce) && ce.StatusCode != 0 {
		return ce.StatusCode
	}
	return http.StatusInternalServerError
}

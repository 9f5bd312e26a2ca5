package primegaming

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type graphqlQueryObject struct {
	Name       string   `json:"operationName"`
	Variables  any      `json:"variables"`
	Extensions struct{} `json:"extensions"`
	Query      string   `json:"query"`
}

type graphqlQueryResult[Data any] struct {
	Data Data `json:"data"`
}

func graphqlQuery[Input, Output any](
	ctx context.Context,
	client *Client,
	name,
	query string,
	variables Input,
) (Output, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", name))
	defer span.End()

	span.SetAttributes(attribute.KeyValue{
		Key:   "custom.name",
		Value: attribute.StringValue(name),
	})

	var defaultOut Output

	if err := client.ensureTransport(); err != nil {
		span.SetStatus(codes.Error, "failed to rebuild transport")
		return defaultOut, err
	}

	obj := graphqlQueryObject{
		Name:      name,
		Query:     query,
		Variables: variables,
	}
	body, err := json.Marshal(obj)
	if err != nil {
		span.SetStatus(codes.Error, "failed to serialize json query")
		return defaultOut, err
	}

	res, err := client.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post("/graphql")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return defaultOut, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "non-2xx response")
		return defaultOut, fmt.Errorf("graphql %s: %s", name, res.Status())
	}

	var result graphqlQueryResult[Output]
	err = json.Unmarshal(res.Body(), &result)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse json response")
		return defaultOut, err
	}

	return result.Data, nil
}

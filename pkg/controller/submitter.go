package controller

import (
	"context"
	"net/url"

	"github.com/simulot/mediagrab/pkg/models"
	"github.com/simulot/mediagrab/pkg/myhttp"
)

// HTTPSubmitter posts the form's fields to the request's endpoint
type HTTPSubmitter struct {
	client *myhttp.Client
}

func NewHTTPSubmitter(client *myhttp.Client) *HTTPSubmitter {
	if client == nil {
		client = myhttp.NewClient()
	}
	return &HTTPSubmitter{
		client: client,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, r models.DownloadRequest, fields url.Values) models.Result {
	req, err := s.client.NewRequestForm(ctx, r.Endpoint, fields)
	if err != nil {
		return models.Failure{Message: err.Error(), Transport: true}
	}
	var reply models.DownloadReply
	err = s.client.PostForm(req, &reply)
	if err != nil {
		return models.Failure{Message: err.Error(), Transport: true}
	}
	return reply.Result()
}

package orcid

import (
	"context"

	"golang.org/x/oauth2"
)

var _ config = &oAuth2{}

type oAuth2 struct {
	config oauth2.Config
}

func (o *oAuth2) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return o.config.AuthCodeURL(state, opts...)
}

func (o *oAuth2) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	return o.config.Exchange(ctx, code, opts...)
}

func (o *oAuth2) ClientID() string {
	return o.config.ClientID
}

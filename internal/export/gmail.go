package export

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"pedidos/internal/config"
)

// GmailDeliverer leaves the composed export as a draft in the user's
// Gmail account.
type GmailDeliverer struct {
	service *gmail.Service
	from    string
	to      string
}

func NewGmailDeliverer(cfg config.Config) (*GmailDeliverer, error) {
	if err := cfg.Require("GMAIL_CLIENT_ID", cfg.GmailClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_CLIENT_SECRET", cfg.GmailClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken); err != nil {
		return nil, err
	}
	if err := cfg.Require("MAIL_FROM", cfg.MailFrom); err != nil {
		return nil, err
	}
	if err := cfg.Require("MAIL_TO", cfg.MailTo); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailComposeScope},
	}

	tokenSource := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(context.Background(), option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailDeliverer{service: svc, from: cfg.MailFrom, to: cfg.MailTo}, nil
}

func (d *GmailDeliverer) Deliver(subject, html string) error {
	raw, err := ComposeMessage(d.from, d.to, subject, html)
	if err != nil {
		return err
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{Raw: base64.RawURLEncoding.EncodeToString(raw)},
	}
	if _, err := d.service.Users.Drafts.Create("me", draft).Do(); err != nil {
		return fmt.Errorf("create gmail draft: %w", err)
	}
	return nil
}

package export

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"pedidos/internal/config"
)

// IMAPDraftDeliverer appends the composed export to the drafts mailbox
// of an IMAP account.
type IMAPDraftDeliverer struct {
	host     string
	port     int
	secure   bool
	user     string
	password string
	mailbox  string
	from     string
	to       string
}

func NewIMAPDraftDeliverer(cfg config.Config) (*IMAPDraftDeliverer, error) {
	if err := cfg.Require("IMAP_HOST", cfg.IMAPHost); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_USER", cfg.IMAPUser); err != nil {
		return nil, err
	}
	if err := cfg.Require("IMAP_PASSWORD", cfg.IMAPPassword); err != nil {
		return nil, err
	}
	if err := cfg.Require("MAIL_FROM", cfg.MailFrom); err != nil {
		return nil, err
	}
	if err := cfg.Require("MAIL_TO", cfg.MailTo); err != nil {
		return nil, err
	}

	return &IMAPDraftDeliverer{
		host:     cfg.IMAPHost,
		port:     cfg.IMAPPort,
		secure:   cfg.IMAPSecure,
		user:     cfg.IMAPUser,
		password: cfg.IMAPPassword,
		mailbox:  cfg.IMAPDraftsMailbox,
		from:     cfg.MailFrom,
		to:       cfg.MailTo,
	}, nil
}

func (d *IMAPDraftDeliverer) Deliver(subject, html string) error {
	raw, err := ComposeMessage(d.from, d.to, subject, html)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", d.host, d.port)
	var client *imapclient.Client
	if d.secure {
		client, err = imapclient.DialTLS(addr, &tls.Config{ServerName: d.host})
	} else {
		client, err = imapclient.Dial(addr)
	}
	if err != nil {
		return err
	}
	defer client.Logout()

	if err := client.Login(d.user, d.password); err != nil {
		return err
	}

	// The drafts mailbox may not exist yet on a fresh account.
	_ = client.Create(d.mailbox)

	literal := bytes.NewBuffer(raw)
	if err := client.Append(d.mailbox, []string{imap.DraftFlag}, time.Now(), literal); err != nil {
		return fmt.Errorf("append draft to %s: %w", d.mailbox, err)
	}
	return nil
}

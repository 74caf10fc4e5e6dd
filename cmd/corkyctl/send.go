package main

import (
	"context"
	"os"

	"corkyctl/internal/config"
	"corkyctl/internal/envelope"
	"corkyctl/internal/history"
	"corkyctl/internal/transport"

	"github.com/spf13/cobra"
)

type sendOptions struct {
	destination string
	chatID      int64
	list        string
	text        string
	status      string
	action      string
	endpoint    string
	image       string
	identity    string
	record      bool
}

var sendOpts sendOptions

func addSendFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sendOpts.destination, "destination", config.DefaultDestination, "routing identity frame")
	f.Int64Var(&sendOpts.chatID, "chat-id", 0, "chat ID to deliver to")
	f.StringVar(&sendOpts.list, "list", "", "subscriber list name to deliver to")
	f.StringVar(&sendOpts.text, "text", envelope.DefaultText, "message text")
	f.StringVar(&sendOpts.status, "status", envelope.DefaultStatus, "envelope status tag")
	f.StringVar(&sendOpts.action, "action", envelope.DefaultAction, "envelope action tag")
	f.StringVar(&sendOpts.endpoint, "endpoint", config.DefaultEndpoint, "socket connect target")
	f.StringVar(&sendOpts.image, "image", "", "path to an image file to send with the message")
	f.StringVar(&sendOpts.identity, "identity", "", "socket identity (default: client.identity from config)")
	f.BoolVar(&sendOpts.record, "record", false, "journal this send even when history is disabled in config")
}

// sendRequest is a fully resolved send: flags merged with config, envelope
// assembled.
type sendRequest struct {
	endpoint    string
	destination string
	identity    string
	env         envelope.Envelope
}

// resolveSend merges parsed flags with config values. An explicit flag always
// wins; config fills in the rest.
func resolveSend(cmd *cobra.Command, opts sendOptions, cfg *config.Config) sendRequest {
	req := sendRequest{
		endpoint:    opts.endpoint,
		destination: opts.destination,
		identity:    opts.identity,
	}
	if !cmd.Flags().Changed("endpoint") && cfg.Telegram.ZMQEndpoint != "" {
		req.endpoint = cfg.Telegram.ZMQEndpoint
	}
	if !cmd.Flags().Changed("destination") && cfg.Client.Destination != "" {
		req.destination = cfg.Client.Destination
	}
	if req.identity == "" {
		req.identity = cfg.Client.Identity
	}

	data := envelope.Data{Text: opts.text}
	if cmd.Flags().Changed("chat-id") {
		chatID := opts.chatID
		data.ChatID = &chatID
	}
	data.SubscriberList = opts.list
	data.ImagePath = opts.image

	req.env = envelope.Envelope{Status: opts.status, Action: opts.action, Data: data}
	return req
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadClientConfig()
	if err != nil {
		return err
	}

	req := resolveSend(cmd, sendOpts, cfg)

	if req.env.Data.SubscriberList != "" && !cfg.KnownList(req.env.Data.SubscriberList) {
		logger.Warn("subscriber list not present in config, the service will warn its owner",
			"list", req.env.Data.SubscriberList)
	}
	if req.env.Data.ImagePath != "" {
		if _, err := os.Stat(req.env.Data.ImagePath); err != nil {
			logger.Warn("image file not found locally, the service will fall back to text-only",
				"image", req.env.Data.ImagePath)
		}
	}
	if req.env.Data.ChatID == nil && req.env.Data.SubscriberList == "" {
		logger.Info("no chat-id or subscriber list, the service delivers to its owner chat")
	}

	payload, err := req.env.Encode()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dealer, err := transport.Dial(ctx, transport.Options{
		Endpoint: req.endpoint,
		Identity: req.identity,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer dealer.Close()

	logger.Info("sending multipart message", "destination", req.destination, "endpoint", req.endpoint)
	if err := dealer.Send(req.destination, payload); err != nil {
		return err
	}
	logger.Info("message sent", "bytes", len(payload))

	if sendOpts.record || cfg.Client.History {
		if err := journalSend(ctx, cfg, req, payload); err != nil {
			// The send itself succeeded; a journaling failure is not fatal.
			logger.Warn("could not journal send", "err", err)
		}
	}
	return nil
}

func journalSend(ctx context.Context, cfg *config.Config, req sendRequest, payload []byte) error {
	store, err := history.Open(cfg.Client.HistoryDBPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, history.Entry{
		Endpoint:    req.endpoint,
		Destination: req.destination,
		Status:      req.env.Status,
		Action:      req.env.Action,
		Payload:     string(payload),
	})
}

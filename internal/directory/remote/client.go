// Package remote implements the speaker directory over a speaker bridge gRPC service.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/speaker-autogroup/internal/api/grpc/bridge"
	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/directory"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
)

// Client is a directory.Directory backed by a speaker bridge.
type Client struct {
	// conn is the underlying gRPC connection to the bridge.
	conn *grpc.ClientConn
	// api is the bridge client stub.
	api bridge.BridgeClient

	// callTimeout bounds calls that carry no explicit budget.
	callTimeout time.Duration
	// actor is sent with every call for the bridge's audit log.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets the timeout of name, topology and join calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the "user@host" reported to the bridge.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the speaker bridge.
// Note: transport is insecure; the bridge is expected on the home network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial speaker bridge: %w", err)
	}

	return newClient(conn, bridge.NewBridgeClient(conn), opts...), nil
}

func newClient(conn *grpc.ClientConn, api bridge.BridgeClient, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		api:         api,
		callTimeout: config.DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Discover lists the speakers the bridge reaches within the budget.
func (c *Client) Discover(ctx context.Context, budget time.Duration) ([]directory.Speaker, error) {
	callCtx, cancel := directory.WithBudget(c.outgoing(ctx), budget)
	defer cancel()

	resp, err := c.api.Discover(callCtx, new(bridge.DiscoverRequest))
	if err != nil {
		return nil, fmt.Errorf("discover: %w", fromStatus(err))
	}

	speakers := make([]directory.Speaker, 0, len(resp.Speakers))
	for _, d := range resp.Speakers {
		speakers = append(speakers, &remoteSpeaker{client: c, id: d.ID})
	}

	return speakers, nil
}

// Find resolves a speaker by display name within the budget.
func (c *Client) Find(ctx context.Context, name string, budget time.Duration) (directory.Speaker, error) {
	callCtx, cancel := directory.WithBudget(c.outgoing(ctx), budget)
	defer cancel()

	resp, err := c.api.Find(callCtx, &bridge.FindRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("find %q: %w", name, fromStatus(err))
	}

	if resp.Speaker == nil {
		return nil, fmt.Errorf("%w: %q", directory.ErrNotFound, name)
	}

	return &remoteSpeaker{client: c, id: resp.Speaker.ID}, nil
}

// callContext bounds a call by the client's call timeout and attaches the actor.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return directory.WithBudget(c.outgoing(ctx), c.callTimeout)
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	if c.actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, bridge.ActorMetadataKey, c.actor)
}

// fromStatus turns NotFound statuses back into directory.ErrNotFound.
func fromStatus(err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s", directory.ErrNotFound, status.Convert(err).Message())
	}

	return err
}

// remoteSpeaker is a speaker handle resolved through the bridge.
type remoteSpeaker struct {
	client *Client
	id     string
}

func (s *remoteSpeaker) ID() string {
	return s.id
}

func (s *remoteSpeaker) Name(ctx context.Context) (string, error) {
	callCtx, cancel := s.client.callContext(ctx)
	defer cancel()

	resp, err := s.client.api.Describe(callCtx, &bridge.DescribeRequest{ID: s.id})
	if err != nil {
		return "", fmt.Errorf("describe %s: %w", s.id, fromStatus(err))
	}

	return resp.Speaker.Name, nil
}

func (s *remoteSpeaker) ZoneGroupState(ctx context.Context) (speaker.Topology, error) {
	callCtx, cancel := s.client.callContext(ctx)
	defer cancel()

	resp, err := s.client.api.ZoneGroupState(callCtx, &bridge.ZoneGroupStateRequest{ID: s.id})
	if err != nil {
		return nil, fmt.Errorf("zone group state of %s: %w", s.id, fromStatus(err))
	}

	return bridge.ToTopology(resp.Groups), nil
}

func (s *remoteSpeaker) Join(ctx context.Context, target string) error {
	callCtx, cancel := s.client.callContext(ctx)
	defer cancel()

	if _, err := s.client.api.Join(callCtx, &bridge.JoinRequest{ID: s.id, Target: target}); err != nil {
		return fmt.Errorf("join %s to %q: %w", s.id, target, fromStatus(err))
	}

	return nil
}

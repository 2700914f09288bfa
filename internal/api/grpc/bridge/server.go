package bridge

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oshokin/speaker-autogroup/internal/directory"
	"github.com/oshokin/speaker-autogroup/internal/domain/speaker"
	"github.com/oshokin/speaker-autogroup/internal/logger"
)

// ActorMetadataKey carries "user@host" of the process issuing commands.
const ActorMetadataKey = "x-speaker-actor"

// Household is what the bridge serves: a directory plus lookup by identifier.
type Household interface {
	directory.Directory
	// Speaker returns the handle of the speaker with the given identifier.
	Speaker(id string) (directory.Speaker, error)
}

// Server implements BridgeServer over a Household.
type Server struct {
	// household answers every request.
	household Household
}

// NewServer wires the household into a gRPC handler.
func NewServer(household Household) *Server {
	return &Server{
		household: household,
	}
}

// Discover lists every speaker of the household within the call deadline.
func (s *Server) Discover(ctx context.Context, _ *DiscoverRequest) (*DiscoverResponse, error) {
	speakers, err := s.household.Discover(ctx, remaining(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	devices := make([]Device, 0, len(speakers))

	for _, sp := range speakers {
		name, err := sp.Name(ctx)
		if err != nil {
			return nil, toStatus(err)
		}

		devices = append(devices, Device{ID: sp.ID(), Name: name})
	}

	return &DiscoverResponse{Speakers: devices}, nil
}

// Find resolves a speaker by name. An unknown name is an empty response, not an error.
func (s *Server) Find(ctx context.Context, req *FindRequest) (*FindResponse, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	sp, err := s.household.Find(ctx, req.Name, remaining(ctx))

	switch {
	case errors.Is(err, directory.ErrNotFound):
		return new(FindResponse), nil
	case err != nil:
		return nil, toStatus(err)
	}

	name, err := sp.Name(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &FindResponse{Speaker: &Device{ID: sp.ID(), Name: name}}, nil
}

// Describe returns the identity of a speaker.
func (s *Server) Describe(ctx context.Context, req *DescribeRequest) (*DescribeResponse, error) {
	sp, err := s.speaker(req.ID)
	if err != nil {
		return nil, err
	}

	name, err := sp.Name(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &DescribeResponse{Speaker: Device{ID: sp.ID(), Name: name}}, nil
}

// ZoneGroupState returns the topology seen by a speaker.
func (s *Server) ZoneGroupState(ctx context.Context, req *ZoneGroupStateRequest) (*ZoneGroupStateResponse, error) {
	sp, err := s.speaker(req.ID)
	if err != nil {
		return nil, err
	}

	topology, err := sp.ZoneGroupState(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return &ZoneGroupStateResponse{Groups: FromTopology(topology)}, nil
}

// Join commands a speaker to join the named speaker's group.
func (s *Server) Join(ctx context.Context, req *JoinRequest) (*JoinResponse, error) {
	if req.Target == "" {
		return nil, status.Error(codes.InvalidArgument, "target is required")
	}

	sp, err := s.speaker(req.ID)
	if err != nil {
		return nil, err
	}

	if err = sp.Join(ctx, req.Target); err != nil {
		logger.WarnKV(ctx, "Join rejected", "speaker_id", req.ID, "target", req.Target, "error", err)

		return nil, toStatus(err)
	}

	logger.InfoKV(ctx, "Speaker joined", "speaker_id", req.ID, "target", req.Target, "actor", actorFrom(ctx))

	return new(JoinResponse), nil
}

func (s *Server) speaker(id string) (directory.Speaker, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	sp, err := s.household.Speaker(id)
	if err != nil {
		return nil, toStatus(err)
	}

	return sp, nil
}

// FromTopology converts a domain topology into wire groups.
func FromTopology(topology speaker.Topology) []ZoneGroup {
	groups := make([]ZoneGroup, 0, len(topology))

	for _, g := range topology {
		members := make([]Device, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, Device{ID: m.ID, Name: m.Name})
		}

		groups = append(groups, ZoneGroup{Coordinator: g.Coordinator, Members: members})
	}

	return groups
}

// ToTopology converts wire groups into a domain topology.
func ToTopology(groups []ZoneGroup) speaker.Topology {
	topology := make(speaker.Topology, 0, len(groups))

	for _, g := range groups {
		members := make([]speaker.Member, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, speaker.Member{ID: m.ID, Name: m.Name})
		}

		topology = append(topology, speaker.Group{Coordinator: g.Coordinator, Members: members})
	}

	return topology
}

// toStatus maps household errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.FailedPrecondition, err.Error())
	}
}

// remaining returns the time left before the call deadline, or zero without one.
func remaining(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}

	return time.Until(deadline)
}

// actorFrom reads the calling actor from incoming metadata.
func actorFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "<unknown>"
	}

	if values := md.Get(ActorMetadataKey); len(values) > 0 {
		return values[0]
	}

	return "<unknown>"
}

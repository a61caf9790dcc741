package llmanager

import (
	"context"
	"fmt"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// RequestPath asks the manager at managerRank to plan agentID from start
// to goal under constraints, blocking for the response. This is the
// client side of low_level_request_path's manager_world_rank >= 0 branch;
// callers with no manager configured should call lowlevel.SpaceTimeAStar
// directly instead.
func RequestPath(ctx context.Context, comm msgnet.Comm, managerRank, requestID, agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool, error) {
	req := encodeRequest(requestID, agentID, start, goal, constraints)
	if err := comm.Send(ctx, managerRank, msgnet.TagLLRequest, req); err != nil {
		return nil, false, fmt.Errorf("llmanager: send request: %w", err)
	}

	for {
		env, err := comm.Recv(ctx, msgnet.TagLLResponse)
		if err != nil {
			return nil, false, fmt.Errorf("llmanager: recv response: %w", err)
		}
		resp := decodeResponse(env.Data)
		if resp.RequestID != requestID {
			continue
		}
		return resp.Path, resp.Found, nil
	}
}

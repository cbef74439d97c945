package web

import (
	"net/http"

	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/votes"
)

const directionRemove = "remove"

type voteRequest struct {
	Direction string `json:"direction"`
}

// HandleVote casts, flips or withdraws the requester's vote. Direction "remove" withdraws.
func (h *Handler) HandleVote() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, err := votes.ParseTargetKind(r.PathValue("kind"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		var req voteRequest

		err = decodeJSON(w, r, &req)
		if err != nil {
			respondError(w, r, err)

			return
		}

		target := votes.Target{Kind: kind, ID: r.PathValue("targetId")}

		var result *ranking.VoteResult

		if req.Direction == directionRemove {
			result, err = h.engine.WithdrawVote(r.Context(), target)
		} else {
			var direction votes.Direction

			direction, err = votes.ParseDirection(req.Direction)
			if err != nil {
				respondError(w, r, err)

				return
			}

			result, err = h.engine.CastVote(r.Context(), target, direction)
		}

		if err != nil {
			respondError(w, r, err)

			return
		}

		respondJSON(w, r, http.StatusOK, newVoteResponse(result))
	})
}

package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/votes"
)

func (h *Handler) HandleListFeed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feed, err := contents.ParseFeed(r.PathValue("feed"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		limit := h.feedDefaultLimit

		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				respondError(w, r, &badRequestError{message: fmt.Sprintf("invalid limit %q", raw)})

				return
			}
		}

		posts, err := h.engine.ListFeed(r.Context(), feed, limit)
		if err != nil {
			respondError(w, r, err)

			return
		}

		ids := make([]string, 0, len(posts))
		for _, post := range posts {
			ids = append(ids, post.ID)
		}

		states, err := h.votesSvc.States(r.Context(), currentVoterID(r), votes.TargetKindPost, ids)
		if err != nil {
			respondError(w, r, err)

			return
		}

		out := make([]postResponse, 0, len(posts))
		for _, post := range posts {
			out = append(out, newPostResponse(post, states[post.ID]))
		}

		respondJSON(w, r, http.StatusOK, out)
	})
}

type createPostRequest struct {
	Content string `json:"content"`
}

func (h *Handler) HandleCreatePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest

		err := decodeJSON(w, r, &req)
		if err != nil {
			respondError(w, r, err)

			return
		}

		post, err := h.engine.CreatePost(r.Context(), req.Content)
		if err != nil {
			respondError(w, r, err)

			return
		}

		w.Header().Set("Location", "/posts/"+post.ID)
		respondJSON(w, r, http.StatusCreated, newPostResponse(post, votes.StateNone))
	})
}

func (h *Handler) HandleGetPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		post, err := h.contentsSvc.GetPost(r.Context(), r.PathValue("postId"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		state := votes.StateNone

		if voterID := currentVoterID(r); voterID != "" {
			state, err = h.votesSvc.State(r.Context(), voterID, votes.Target{Kind: votes.TargetKindPost, ID: post.ID})
			if err != nil {
				respondError(w, r, err)

				return
			}
		}

		respondJSON(w, r, http.StatusOK, newPostResponse(post, state))
	})
}

func (h *Handler) HandleRemovePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h.engine.RemovePost(r.Context(), r.PathValue("postId"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *Handler) HandleGetReputation() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorID := r.PathValue("authorId")

		score, err := h.engine.Reputation(r.Context(), authorID)
		if err != nil {
			respondError(w, r, err)

			return
		}

		respondJSON(w, r, http.StatusOK, reputationResponse{AuthorID: authorID, Reputation: score})
	})
}

package web

import (
	"net/http"
)

// HandleCommentTree returns the post's comments nested by reply, decorated with the
// requester's vote on each.
func (h *Handler) HandleCommentTree() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		post, err := h.contentsSvc.GetPost(r.Context(), r.PathValue("postId"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		tree, err := h.discussSvc.CommentTree(r.Context(), post.ID, currentVoterID(r))
		if err != nil {
			respondError(w, r, err)

			return
		}

		respondJSON(w, r, http.StatusOK, newNodeResponses(tree))
	})
}

func (h *Handler) HandleGetComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		comment, err := h.discussSvc.GetComment(r.Context(), r.PathValue("commentId"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		respondJSON(w, r, http.StatusOK, newCommentResponse(comment))
	})
}

type createCommentRequest struct {
	Content string `json:"content"`
	ReplyTo string `json:"replyTo,omitempty"`
}

func (h *Handler) HandleCreateComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createCommentRequest

		err := decodeJSON(w, r, &req)
		if err != nil {
			respondError(w, r, err)

			return
		}

		comment, err := h.engine.CreateComment(r.Context(), r.PathValue("postId"), req.Content, req.ReplyTo)
		if err != nil {
			respondError(w, r, err)

			return
		}

		respondJSON(w, r, http.StatusCreated, newCommentResponse(comment))
	})
}

func (h *Handler) HandleRemoveComment() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h.engine.RemoveComment(r.Context(), r.PathValue("commentId"))
		if err != nil {
			respondError(w, r, err)

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

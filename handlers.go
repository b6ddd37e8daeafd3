package main

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

func (b *Blog) Register(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(r, "username", "password", "email")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := b.auth.Register(r.Context(), in.get("username"), in.get("password"), in.get("email"))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "fields": verr.Fields})
			return
		}
		b.log.WithError(err).WithField("username", in.get("username")).Warn("registration rejected by store")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b.log.WithField("user_id", user.ID).Info("user registered")
	writeJSON(w, http.StatusCreated, user)
}

func (b *Blog) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readFields(r, "email", "password")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := b.auth.Login(r.Context(), in.get("email"), in.get("password"))
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		b.log.WithError(err).Error("login failed")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	setTokenCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "username": user.Username})
}

// Profile answers 200 either way; an invalid token is reported in the body.
func (b *Blog) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := b.auth.verifyRequest(r)
	if err != nil {
		writeError(w, http.StatusOK, err)
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

func (b *Blog) Logout(w http.ResponseWriter, r *http.Request) {
	setTokenCookie(w, "")
	writeJSON(w, http.StatusOK, "ok")
}

func (b *Blog) CreatePost(w http.ResponseWriter, r *http.Request) {
	claims, err := b.auth.verifyRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	in, err := readFields(r, "title", "summary", "description")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	cover, ok := b.receiveCover(w, r)
	if !ok {
		return
	}

	post, err := b.store.CreatePost(r.Context(), PostInput{
		Title:       in.get("title"),
		Summary:     in.get("summary"),
		Description: in.get("description"),
		Cover:       cover,
	}, claims.ID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", claims.ID).Error("creating post")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.store.ListPosts(r.Context())
	if err != nil {
		b.log.WithError(err).Error("listing posts")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost writes null for an unknown id.
func (b *Blog) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := b.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		b.log.WithError(err).Error("getting post")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (b *Blog) UpdatePost(w http.ResponseWriter, r *http.Request) {
	claims, err := b.auth.verifyRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	in, err := readFields(r, "title", "summary", "description")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	cover, ok := b.receiveCover(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	_, err = b.store.UpdatePost(r.Context(), id, PostUpdate{
		Title:       in.ptr("title"),
		Summary:     in.ptr("summary"),
		Description: in.ptr("description"),
		Cover:       cover,
	}, claims.ID)
	switch {
	case errors.Is(err, ErrForbidden):
		b.log.WithFields(logrus.Fields{"post_id": id, "user_id": claims.ID}).Warn("edit by non-author rejected")
		writeJSON(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		b.log.WithError(err).WithField("post_id", id).Error("updating post")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Post updated successfully"})
}

// DeletePost does not check ownership. The caller, if logged in, is logged so
// deletions can be traced.
func (b *Blog) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := b.store.DeletePost(r.Context(), id); err != nil {
		b.log.WithError(err).WithField("post_id", id).Error("deleting post")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	fields := logrus.Fields{"post_id": id}
	if claims, err := b.auth.verifyRequest(r); err == nil {
		fields["user_id"] = claims.ID
	}
	b.log.WithFields(fields).Info("post deleted")

	writeJSON(w, http.StatusOK, "ok")
}

// receiveCover stores the request's cover upload and writes the error
// response itself when it fails.
func (b *Blog) receiveCover(w http.ResponseWriter, r *http.Request) (*string, bool) {
	cover, err := receiveCover(r.Context(), b.covers, r)
	if errors.Is(err, ErrUnexpectedFile) {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if err != nil {
		b.log.WithError(err).Error("storing cover")
		writeError(w, http.StatusInternalServerError, errInternal)
		return nil, false
	}
	return cover, true
}

package server

import (
	"io"
	"net/http"

	"github.com/inkpress/go-blog-server/posts"
)

// maxUploadBytes bounds how much of a multipart body is held in memory
// while parsing. Larger files spill to temporary disk storage.
const maxUploadBytes = 10 << 20

// CreatePostHandler stores the uploaded cover and creates a post authored by
// the verified token subject.
func (s *Server) CreatePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		fields := postFields(r)
		uploadName, upload, err := coverUpload(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cover upload")
			return
		}
		if upload != nil {
			defer upload.Close()
		}

		created, err := s.posts.Create(r.Context(), claimsFromContext(r.Context()), fields, uploadName, readerOrNil(upload))
		if err != nil {
			respondError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, created)
	}
}

// UpdatePostHandler rewrites a post's text fields after the ownership check.
// The cover changes only when the request carries a new upload.
func (s *Server) UpdatePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		fields := postFields(r)
		uploadName, upload, err := coverUpload(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cover upload")
			return
		}
		if upload != nil {
			defer upload.Close()
		}

		updated, err := s.posts.Update(r.Context(), claimsFromContext(r.Context()), r.PathValue("id"), fields, uploadName, readerOrNil(upload))
		if err != nil {
			respondError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

// ListPostsHandler returns the newest posts, capped, newest first.
func (s *Server) ListPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listed, err := s.posts.ListRecent(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listed)
	}
}

// GetPostHandler returns a single post by id.
func (s *Server) GetPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.posts.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func postFields(r *http.Request) posts.Fields {
	return posts.Fields{
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
	}
}

// coverUpload returns the optional "file" part of a multipart request. A
// request without one yields a nil file and no error; the service decides
// whether that is acceptable.
func coverUpload(r *http.Request) (string, io.ReadCloser, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return header.Filename, file, nil
}

// readerOrNil keeps a nil io.ReadCloser from turning into a non-nil
// io.Reader interface value.
func readerOrNil(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}

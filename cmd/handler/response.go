package handler

import (
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/ajg/form"
	"github.com/go-chi/render"
	"github.com/valenoirs/backoffice/cmd/session"
	"go.uber.org/zap"
)

// Outcome is what a form controller decides: the page to send the browser
// to and the single flash message to show there.
type Outcome struct {
	Redirect string
	Key      string
	Message  string
	// Session, when set, replaces the session cookie. A zero Actor signs
	// the browser out.
	Session *session.Actor
}

func redirect(to, key, msg string) Outcome {
	return Outcome{Redirect: to, Key: key, Message: msg}
}

type formFunc func(r *http.Request, actor session.Actor) Outcome

// formRoute adapts a form controller: every outcome, including failures, is a
// 302 redirect carrying one flash message.
func formRoute(sm *session.Manager, log *zap.Logger, fn formFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := fn(r, session.FromContext(r.Context()))
		if out.Session != nil {
			if out.Session.IsAdmin() || out.Session.Root {
				if err := sm.Issue(w, *out.Session); err != nil {
					log.Error("failed issuing session", zap.Error(err))
				}
			} else {
				sm.Clear(w)
			}
		}
		if out.Message != "" {
			if err := sm.SetFlash(w, out.Key, out.Message); err != nil {
				log.Error("failed queueing flash", zap.Error(err))
			}
		}
		http.Redirect(w, r, out.Redirect, http.StatusFound)
	}
}

// Reply is what an API controller decides.
type Reply struct {
	Status  int
	Key     string
	Data    interface{}
	ErrType string
	Message string
}

func ok(key string, data interface{}) Reply {
	return Reply{Status: http.StatusOK, Key: key, Data: data}
}

func fail(status int, errType, msg string) Reply {
	return Reply{Status: status, ErrType: errType, Message: msg}
}

type Success struct {
	Success bool                   `json:"success"`
	Status  int                    `json:"status"`
	Data    map[string]interface{} `json:"data"`
}

type Failure struct {
	Error  bool              `json:"error"`
	Status int               `json:"status"`
	Type   string            `json:"type"`
	Data   map[string]string `json:"data"`
}

func writeReply(w http.ResponseWriter, r *http.Request, rep Reply) {
	render.Status(r, rep.Status)
	if rep.ErrType != "" {
		render.JSON(w, r, Failure{
			Error:  true,
			Status: rep.Status,
			Type:   rep.ErrType,
			Data:   map[string]string{"message": rep.Message},
		})
		return
	}
	render.JSON(w, r, Success{
		Success: true,
		Status:  rep.Status,
		Data:    map[string]interface{}{rep.Key: rep.Data},
	})
}

type apiFunc func(r *http.Request, actor session.Actor) Reply

func apiRoute(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeReply(w, r, fn(r, session.FromContext(r.Context())))
	}
}

// bind decodes a JSON body, or else the urlencoded/multipart form fields,
// into dst. Unknown form keys are ignored.
func bind(r *http.Request, dst interface{}) error {
	if render.GetRequestContentType(r) == render.ContentTypeJSON {
		return render.DecodeJSON(r.Body, dst)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data" && r.MultipartForm == nil:
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return err
		}
	case mediaType == "application/x-www-form-urlencoded" && r.Method == http.MethodDelete && r.PostForm == nil:
		// net/http only reads POST, PUT and PATCH bodies.
		if err := parseBodyForm(r); err != nil {
			return err
		}
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	dec := form.NewDecoder(nil)
	dec.IgnoreUnknownKeys(true)
	return dec.DecodeValues(dst, r.PostForm)
}

func parseBodyForm(r *http.Request) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return err
	}
	r.PostForm = values
	return nil
}

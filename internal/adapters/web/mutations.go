package web

import (
	"errors"
	"net/http"

	"medequip-admin/internal/core"
)

// mutation describes one create/update/delete form submission.
type mutation struct {
	// back is the list page to return to.
	back string
	// parseErr holds field errors found while reading the form.
	parseErr error
	// do performs the API call.
	do func() error
	// rerender shows the dialog again with field errors. Nil for actions
	// without a dialog, which report errors as a flash instead.
	rerender func(errs core.ValidationErrors)
	success  string
	failure  string
}

// run applies the failure semantics shared by every mutation: field errors
// re-render the dialog without calling the backend, backend failures
// redirect back with a flash error, success redirects with a flash notice.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, m mutation) {
	target := listURL(m.back, r)
	if m.parseErr != nil {
		h.invalid(w, r, m, target, m.parseErr)
		return
	}
	if err := m.do(); err != nil {
		if _, ok := core.AsValidationErrors(err); ok {
			h.invalid(w, r, m, target, err)
			return
		}
		h.actionFailed(w, r, target, err, m.failure)
		return
	}
	redirectFlash(w, r, target, "flash_success", m.success)
}

func (h *Handler) invalid(w http.ResponseWriter, r *http.Request, m mutation, target string, err error) {
	verrs, _ := core.AsValidationErrors(err)
	if m.rerender == nil {
		redirectFlash(w, r, target, "flash_error", userMessage(err, m.failure))
		return
	}
	m.rerender(verrs)
}

// parseForm parses the POST body, answering 413 when it is over the route's
// size limit and 400 otherwise.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseForm()
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "form too large", http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, "invalid form submission", http.StatusBadRequest)
	return false
}

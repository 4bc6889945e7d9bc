package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/onboarding"
)

// CustomFormIndexHandler shows the start page, or the detail page once an account is linked.
func (s *Server) CustomFormIndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("custom_form_index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		tenant := requestContextFrom(r.Context()).Tenant
		if tenant.HasAccount() {
			redirectSuccess(w, r, RouteCustomFormDetail)
			return
		}
		state, err := s.onboarding.State(r.Context(), tenant)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.render(w, r, tmpl, map[string]any{
			"Tenant": tenant,
			"Status": state.Status,
		})
	}
}

// CustomFormNewHandler creates the tenant's connected account and sends the user to its onboarding.
func (s *Server) CustomFormNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := s.onboarding.Start(r.Context(), requestContextFrom(r.Context()).Tenant)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		http.Redirect(w, r, link.URL, http.StatusSeeOther)
	}
}

// CustomFormRestartHandler issues a fresh onboarding link for the linked account.
func (s *Server) CustomFormRestartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := s.onboarding.Resume(r.Context(), requestContextFrom(r.Context()).Tenant)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		http.Redirect(w, r, link.URL, http.StatusSeeOther)
	}
}

func (s *Server) CustomFormDetailHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("show.html")

	return func(w http.ResponseWriter, r *http.Request) {
		tenant := requestContextFrom(r.Context()).Tenant
		state, err := s.onboarding.Detail(r.Context(), tenant)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.render(w, r, tmpl, map[string]any{
			"Tenant":   tenant,
			"Account":  state.Account,
			"Status":   state.Status,
			"Complete": state.IsComplete(),
		})
	}
}

func (s *Server) CustomFormEditHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("edit.html")

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "server.CustomFormEdit"
		tenant := requestContextFrom(r.Context()).Tenant

		switch r.Method {
		case http.MethodGet:
			state, err := s.onboarding.Detail(r.Context(), tenant)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.render(w, r, tmpl, map[string]any{
				"Account": state.Account,
				"Status":  state.Status,
			})

		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, err))
				return
			}
			_, err := s.onboarding.UpdateSettings(r.Context(), tenant, onboarding.SettingsInput{
				StatementDescriptor:      r.PostFormValue("statement_descriptor"),
				StatementDescriptorKana:  r.PostFormValue("statement_descriptor_kana"),
				StatementDescriptorKanji: r.PostFormValue("statement_descriptor_kanji"),
				URL:                      r.PostFormValue("url"),
			})
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			redirectSuccess(w, r, RouteCustomFormDetail)

		default:
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, errUnsupportedMethod))
		}
	}
}

func (s *Server) CustomFormAddBankHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("add_bank.html")

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "server.CustomFormAddBank"
		tenant := requestContextFrom(r.Context()).Tenant

		switch r.Method {
		case http.MethodGet:
			state, err := s.onboarding.Detail(r.Context(), tenant)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.render(w, r, tmpl, map[string]any{
				"Account": state.Account,
				"Status":  state.Status,
			})

		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, err))
				return
			}
			_, err := s.onboarding.AddBankAccount(r.Context(), tenant, onboarding.BankAccountInput{
				AccountHolderName: r.PostFormValue("account_holder_name"),
				RoutingNumber:     r.PostFormValue("routing_number"),
				AccountNumber:     r.PostFormValue("account_number"),
			})
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			redirectSuccess(w, r, RouteCustomFormDetail)

		default:
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, errUnsupportedMethod))
		}
	}
}

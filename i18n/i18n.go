// Package i18n holds the translated UI and validation messages.
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "en"

type ctxKey struct{}

var messages = map[string]map[string]string{
	"en": {
		"required":            "Required",
		"too_short":           "Too short",
		"too_long":            "Too long",
		"invalid_email":       "Invalid email address",
		"invalid_url":         "Must be a valid URL",
		"invalid_choice":      "Invalid choice",
		"must_be_positive":    "Must not be negative",
		"out_of_range":        "Out of range",
		"invalid_number":      "Must be a number",
		"invalid_date":        "Must be a date (YYYY-MM-DD)",
		"password_too_short":  "Password must be at least 6 characters",
		"salary_range":        "Minimum salary exceeds maximum salary",
		"invalid_credentials": "Invalid email or password",
		"company_name_taken":  "Company name already exists",
		"job_title_taken":     "This Job Position already exists",
		"email_taken":         "Email already exists",
		"username_taken":      "Username already taken",
		"user_not_found":      "User not found",
		"company_not_found":   "Company not found",
		"job_not_found":       "Job not found",
		"already_applied":     "You already applied to this job",
		"already_member":      "User already belongs to a company",
		"cannot_remove_self":  "You cannot remove yourself",
		"member_not_found":    "Member not found",
		"duplicate_entry":     "Entry already exists",
		"invalid_input":       "Please fix the highlighted fields",
		"forbidden":           "You are not allowed to do that",
		"generic_error":       "Something went wrong. Please try again.",
	},
	"fr": {
		"required":            "Requis",
		"too_short":           "Trop court",
		"too_long":            "Trop long",
		"invalid_email":       "Adresse e-mail invalide",
		"invalid_url":         "Doit être une URL valide",
		"invalid_choice":      "Choix invalide",
		"must_be_positive":    "Ne doit pas être négatif",
		"out_of_range":        "Hors limites",
		"invalid_number":      "Doit être un nombre",
		"invalid_date":        "Doit être une date (AAAA-MM-JJ)",
		"password_too_short":  "Le mot de passe doit contenir au moins 6 caractères",
		"salary_range":        "Le salaire minimum dépasse le salaire maximum",
		"invalid_credentials": "E-mail ou mot de passe invalide",
		"company_name_taken":  "Ce nom d'entreprise existe déjà",
		"job_title_taken":     "Ce poste existe déjà",
		"email_taken":         "Cet e-mail existe déjà",
		"username_taken":      "Nom d'utilisateur déjà pris",
		"user_not_found":      "Utilisateur introuvable",
		"company_not_found":   "Entreprise introuvable",
		"job_not_found":       "Offre introuvable",
		"already_applied":     "Vous avez déjà postulé à cette offre",
		"already_member":      "Cet utilisateur appartient déjà à une entreprise",
		"cannot_remove_self":  "Vous ne pouvez pas vous retirer vous-même",
		"member_not_found":    "Membre introuvable",
		"duplicate_entry":     "Cette entrée existe déjà",
		"invalid_input":       "Veuillez corriger les champs signalés",
		"forbidden":           "Action non autorisée",
		"generic_error":       "Une erreur est survenue. Veuillez réessayer.",
	},
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// T translates code. Unknown languages fall back to DefaultLang and unknown
// codes are returned unchanged.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported language of an Accept-Language
// header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

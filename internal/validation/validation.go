// Package validation es la función pura de validación de formularios:
// dado un set de campos devuelve "válido" o un mapping campo → mensaje.
// No toca red ni estado; corre antes de cualquier llamada remota.
package validation

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors mapea nombre de campo a mensaje. nil/empty = válido.
type Errors map[string]string

// OK reporta si no hay errores.
func (e Errors) OK() bool { return len(e) == 0 }

// Error resume los mensajes en una sola línea "campo: mensaje", ordenados
// por campo para que el resultado sea estable.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Credentials valida el formulario de login.
func Credentials(email, password string) Errors {
	errs := Errors{}
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		errs["email"] = "Email tidak valid"
	}
	if len(password) < 6 {
		errs["password"] = "Password minimal 6 karakter"
	}
	if errs.OK() {
		return nil
	}
	return errs
}

// Registration valida el formulario de registro.
func Registration(email, password, name string) Errors {
	errs := Credentials(email, password)
	if errs == nil {
		errs = Errors{}
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		errs["name"] = "Nama minimal 2 karakter"
	}
	if errs.OK() {
		return nil
	}
	return errs
}

// Artwork valida los campos de una obra.
func Artwork(title, author, category string) Errors {
	errs := Errors{}
	requireField(errs, "title", title, "Judul wajib diisi")
	requireField(errs, "author", author, "Nama seniman wajib diisi")
	requireField(errs, "category", category, "Kategori wajib diisi")
	if errs.OK() {
		return nil
	}
	return errs
}

// Activity valida los campos de una actividad.
func Activity(title, date, timeOfDay, location string) Errors {
	errs := Errors{}
	requireField(errs, "title", title, "Judul wajib diisi")
	requireField(errs, "location", location, "Lokasi wajib diisi")
	if !dateRe.MatchString(date) {
		errs["date"] = "Tanggal harus berformat YYYY-MM-DD"
	}
	if !timeRe.MatchString(timeOfDay) {
		errs["time"] = "Waktu harus berformat HH:MM"
	}
	if errs.OK() {
		return nil
	}
	return errs
}

// Donation valida los campos de una campaña.
func Donation(title string, targetAmount, collectedAmount int64) Errors {
	errs := Errors{}
	requireField(errs, "title", title, "Judul wajib diisi")
	if targetAmount <= 0 {
		errs["target_amount"] = "Target donasi harus lebih dari 0"
	}
	if collectedAmount < 0 {
		errs["collected_amount"] = "Jumlah terkumpul tidak boleh negatif"
	}
	if errs.OK() {
		return nil
	}
	return errs
}

func requireField(errs Errors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}

package service

import "errors"

// Kelas error service. Handler memetakan kelas ini ke kode HTTP:
// validasi 400, tidak ditemukan 404, otorisasi 403, konflik/duplikat 409.
// Error di luar kelas ini dianggap 500; pesan mentahnya di-log di server,
// tidak pernah dikirim ke client.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

// Error membungkus kelas error dengan pesan yang aman ditampilkan ke user.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

func invalid(msg string) error   { return &Error{kind: ErrValidation, message: msg} }
func notFound(msg string) error  { return &Error{kind: ErrNotFound, message: msg} }
func forbidden(msg string) error { return &Error{kind: ErrForbidden, message: msg} }
func conflict(msg string) error  { return &Error{kind: ErrConflict, message: msg} }

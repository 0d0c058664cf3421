package patient

import "errors"

var (
	ErrRecordNotFound   = errors.New("patient record not found")
	ErrRecordIncomplete = errors.New("patient record requires first name, last name, and date of birth")
	ErrInvalidGender    = errors.New("invalid gender value")
)

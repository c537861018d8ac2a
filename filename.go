package client

import "strings"

const (
	pdfSuffix      = ".pdf"
	formCodeLength = 4
)

// IsValidName reports whether name is an acceptable upload filename: it must end in
// ".pdf" (any case) and the stem must start with four ASCII letters.
func IsValidName(name string) bool {
	if len(name) < len(pdfSuffix) || !strings.EqualFold(name[len(name)-len(pdfSuffix):], pdfSuffix) {
		return false
	}

	stem := name[:len(name)-len(pdfSuffix)]
	if len(stem) < formCodeLength {
		return false
	}

	for i := 0; i < formCodeLength; i++ {
		if !isASCIILetter(stem[i]) {
			return false
		}
	}

	return true
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// PartitionNames splits names into accepted and rejected, preserving order.
func PartitionNames(names []string) (accepted, rejected []string) {
	for _, name := range names {
		if IsValidName(name) {
			accepted = append(accepted, name)
		} else {
			rejected = append(rejected, name)
		}
	}
	return accepted, rejected
}

// ValidateSelection gates a submission. Any rejected name refuses the whole set and
// every rejected name is reported together. In single mode more than one file is refused.
func ValidateSelection(files []File, mode Mode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}

	if len(files) == 0 {
		return ErrNoFiles
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	accepted, rejected := PartitionNames(names)
	if len(rejected) > 0 {
		return &InvalidFilenamesError{Names: rejected}
	}

	if mode == ModeSingle && len(accepted) > 1 {
		return ErrTooManyFiles
	}

	return nil
}

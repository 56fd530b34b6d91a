package models

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidRepoRef is returned when a string is not a usable owner/name pair.
var ErrInvalidRepoRef = errors.New("invalid repo reference")

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string
	Name  string
}

// ParseRepoRef parses "owner/name". Exactly one slash is allowed and neither
// side may be empty or contain whitespace.
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepoRef{}, ErrInvalidRepoRef
	}
	if strings.IndexFunc(owner+name, unicode.IsSpace) != -1 {
		return RepoRef{}, ErrInvalidRepoRef
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Repo is the metadata the summarizer needs for one repository.
type Repo struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description *string `json:"description"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	Language    *string `json:"language"`
}

// Readme is a decoded README file.
type Readme struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SearchCandidate is one repository returned by a repository search.
type SearchCandidate struct {
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
}

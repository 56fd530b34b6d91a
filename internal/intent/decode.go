package intent

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/kevinmichaelchen/gh-sms/internal/models"
)

var (
	errNotObject    = errors.New("intent is not a JSON object")
	errTrailingData = errors.New("unexpected data after intent object")
)

// Decode reads the model's JSON intent. It accepts null for any field, an
// issue number given as a number or a numeric string, and ignores unknown
// keys and values of the wrong type. Malformed JSON, or anything other than
// whitespace after the object, is an error.
func Decode(data []byte) (models.Intent, error) {
	data = bytes.TrimSpace(data)
	raw, err := jx.DecodeBytes(data).Raw()
	if err != nil {
		return models.Intent{}, err
	}
	if len(raw) != len(data) {
		return models.Intent{}, errTrailingData
	}

	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Object {
		return models.Intent{}, errNotObject
	}

	var in models.Intent
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "action":
			var s string
			s, err = optString(d)
			in.Action = models.ParseAction(strings.ToLower(strings.TrimSpace(s)))
		case "repo":
			in.Repo, err = optString(d)
		case "repo_name":
			in.RepoName, err = optString(d)
		case "title":
			in.Title, err = optString(d)
		case "body":
			in.Body, err = optString(d)
		case "issue_number":
			in.IssueNumber, err = optIssueNumber(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return models.Intent{}, err
	}

	if in.Action == "" {
		in.Action = models.ActionUnknown
	}
	in.Repo = strings.TrimSpace(in.Repo)
	in.RepoName = strings.TrimSpace(in.RepoName)
	return in, nil
}

func optString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Null:
		return "", d.Null()
	default:
		return "", d.Skip()
	}
}

// optIssueNumber returns 0 for anything that is not a positive whole number.
func optIssueNumber(d *jx.Decoder) (int, error) {
	switch d.Next() {
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return 0, err
		}
		if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
			return 0, nil
		}
		return int(f), nil
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
		if convErr != nil || n < 1 {
			return 0, nil
		}
		return n, nil
	case jx.Null:
		return 0, d.Null()
	default:
		return 0, d.Skip()
	}
}

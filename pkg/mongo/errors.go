package mongo

import (
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shopfront/commerce-api/pkg/global"
)

var (
	dupKeyPattern   = regexp.MustCompile(`dup key: \{ ?([^:{}]+): (.*?) ?\}`)
	dupIndexPattern = regexp.MustCompile(`index: (\S+)`)
)

// translateError maps driver errors onto the service error taxonomy.
// entity names the document kind for not-found errors.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return global.NotFound(entity)
	}
	if mongo.IsDuplicateKeyError(err) {
		return duplicateKeyError(err)
	}
	return err
}

func duplicateKeyError(err error) *global.DuplicateKeyError {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if field, value, ok := keyValueFromRaw(writeErr); ok {
				return &global.DuplicateKeyError{Field: field, Value: value}
			}
		}
	}
	return parseDuplicateKeyMessage(err.Error())
}

// keyValueFromRaw reads the keyValue document servers attach to E11000 errors.
func keyValueFromRaw(writeErr mongo.WriteError) (string, string, bool) {
	if len(writeErr.Raw) == 0 {
		return "", "", false
	}
	doc, ok := writeErr.Raw.Lookup("keyValue").DocumentOK()
	if !ok {
		return "", "", false
	}
	elems, err := doc.Elements()
	if err != nil || len(elems) == 0 {
		return "", "", false
	}
	value := elems[0].Value()
	if s, ok := value.StringValueOK(); ok {
		return elems[0].Key(), s, true
	}
	return elems[0].Key(), value.String(), true
}

func parseDuplicateKeyMessage(msg string) *global.DuplicateKeyError {
	dup := &global.DuplicateKeyError{Field: "key", Value: "unknown"}
	if m := dupIndexPattern.FindStringSubmatch(msg); m != nil {
		if field, ok := uniqueIndexFields[m[1]]; ok {
			dup.Field = field
		}
	}
	if m := dupKeyPattern.FindStringSubmatch(msg); m != nil {
		dup.Field = strings.TrimSpace(m[1])
		dup.Value = strings.Trim(strings.TrimSpace(m[2]), `"`)
	}
	return dup
}

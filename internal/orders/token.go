package orders

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/promodeagro/packer-workflow/internal/errs"
)

// PageToken is an opaque continuation token for a status-ordered scan. It is
// the store's LastEvaluatedKey passed back verbatim as the next
// ExclusiveStartKey; callers never inspect its contents.
type PageToken map[string]types.AttributeValue

// EncodeToken serializes a token for transport (e.g. as a query parameter).
// The index key attributes are all strings, so anything else is a schema
// violation.
func EncodeToken(t PageToken) (string, error) {
	if len(t) == 0 {
		return "", nil
	}
	flat := make(map[string]string, len(t))
	for k, v := range t {
		s, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			return "", errs.Schemaf("page token attribute %s is not a string", k)
		}
		flat[k] = s.Value
	}
	raw, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeToken reverses EncodeToken. An empty string decodes to a nil token
// (first page).
func DecodeToken(encoded string) (PageToken, error) {
	if encoded == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errs.Validationf("malformed page token")
	}
	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, errs.Validationf("malformed page token")
	}
	t := make(PageToken, len(flat))
	for k, v := range flat {
		t[k] = &types.AttributeValueMemberS{Value: v}
	}
	return t, nil
}

package restfb

import (
	"errors"
	"io"

	eng "github.com/restfb/restfb-sub000/internal/engine"
)

// DetectDuplicateKeys scans a JSON document and reports every repeated member
// name, up to maxIssues when it is positive. Malformed input is reported as a
// parse_error issue.
func DetectDuplicateKeys(src Source, maxIssues int) (Issues, error) {
	var found Issues
	enforced := EnforceSource(src, ParseOpt{Strictness: Strictness{OnDuplicateKey: Warn}}, func(it Issue) {
		found = append(found, it)
	})
	pos, _ := eng.FindPositioner(src)
	depth := 0
	for maxIssues <= 0 || len(found) < maxIssues {
		tok, err := enforced.NextToken()
		if errors.Is(err, io.EOF) {
			if depth > 0 {
				return found, toIssues(eng.ToParseError(err, src.Location(), pos))
			}
			break
		}
		if err != nil {
			return found, toIssues(eng.ToParseError(err, src.Location(), pos))
		}
		switch tok.Kind {
		case TokenBeginObject, TokenBeginArray:
			depth++
		case TokenEndObject, TokenEndArray:
			depth--
		}
	}
	if maxIssues > 0 && len(found) > maxIssues {
		found = found[:maxIssues]
	}
	return found, nil
}

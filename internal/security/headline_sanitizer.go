// Package security 는 외부 입력 데이터의 정화 기능을 제공한다.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HeadlineSanitizerService 는 제공자 기사 제목 정화 인터페이스.
type HeadlineSanitizerService interface {
	// Sanitize 는 제목에서 모든 HTML 태그를 제거하고 엔티티를 복원한다.
	Sanitize(raw string) string
}

// HeadlineSanitizer 는 뉴스 검색 제공자가 내려주는 제목 텍스트를 정화한다.
// 제공자에 따라 검색어 강조 태그(<b> 등)나 HTML 엔티티가 섞여 내려오며,
// 저장된 제목은 그대로 웹 프런트엔드에 노출되므로 저장 전에 태그를 전부 제거한다.
type HeadlineSanitizer struct {
	policy *bluemonday.Policy
}

// NewHeadlineSanitizer 는 HeadlineSanitizer 를 생성한다.
// StrictPolicy 는 어떤 태그도 허용하지 않는다.
func NewHeadlineSanitizer() *HeadlineSanitizer {
	return &HeadlineSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize 는 제목에서 모든 HTML 태그를 제거하고 엔티티를 복원한다.
// bluemonday 는 출력을 이스케이프하므로 &quot; 류의 엔티티를 원래 문자로 되돌린 뒤 공백을 정리한다.
func (s *HeadlineSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// compile-time interface check
var _ HeadlineSanitizerService = (*HeadlineSanitizer)(nil)

// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// SourceMacro 는 거시 경제 뉴스의 source 태그.
const SourceMacro = "macro"

// MainThemes 는 스케줄러가 주기적으로 수집하는 주요 테마 목록.
// 이 목록에 포함된 테마는 DB에서 조회하고, 그 외 테마는 요청 시 제공자에서 직접 조회한다.
var MainThemes = []string{"반도체", "2차전지", "인공지능"}

// FallbackThemes 는 테마 제공자 호출 실패 시 반환하는 고정 테마 목록.
var FallbackThemes = []string{"반도체", "2차전지", "인공지능", "바이오/제약"}

// NewsArticle 은 DB에 저장된 뉴스 기사를 표현한다.
// url 컬럼은 UNIQUE 제약으로 중복 저장을 방지한다.
type NewsArticle struct {
	ID          int64
	Title       string
	URL         string
	PublishedAt time.Time
	Source      string
	ClickCount  int
	CreatedAt   time.Time
}

// FetchedArticle 은 뉴스 검색 제공자에서 가져온 저장 전 기사 레코드를 표현한다.
// 제공자별 필드명은 클라이언트에서 이 정규형으로 변환된 뒤에만 외부로 나간다.
// click_count 는 제공자에 없는 개념이므로 저장 시 0으로 부여된다.
type FetchedArticle struct {
	Title       string
	URL         string
	PublishedAt time.Time
}

// KeywordCount 는 인기 검색어 집계의 한 행을 표현한다.
type KeywordCount struct {
	Keyword string
	Count   int
}

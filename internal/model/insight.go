package model

// Opinion 은 인사이트 파이프라인 1단계(신속 의견)의 결과를 표현한다.
// 생성 호출 실패나 파싱 실패는 에러로 전파하지 않고 Degraded 로 표시한 채
// 사용자에게 보여줄 고정 문구를 Conclusion/Reason 에 담는다.
// 테스트는 문자열 비교 대신 Degraded 플래그로 정상/대체 응답을 구분할 수 있다.
type Opinion struct {
	Conclusion     string
	Reason         string
	Degraded       bool
	DegradedReason string
}

// Insight 는 인사이트 요청 한 건의 최종 결과를 표현한다.
// ReportID 는 이후 챗봇 질의에서 보고서를 다시 찾는 유일한 핸들이다.
type Insight struct {
	StockName      string
	Conclusion     string
	Reason         string
	Report         string
	ReportID       string
	ReportDegraded bool
}

package model

// StockDetail 은 종목 시세 제공자에서 조회한 종목 스냅샷을 표현한다.
// 제공자가 포맷된 문자열("1,380원" 등)을 내려주므로 값은 그대로 문자열로 유지한다.
type StockDetail struct {
	Code      string
	Name      string
	Price     string
	MarketCap string
	PER       string
	PBR       string
}

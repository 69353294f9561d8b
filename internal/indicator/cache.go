// Package indicator 는 인사이트 파이프라인의 프롬프트 컨텍스트로 쓰이는
// 거시 경제 지표 스냅샷의 인메모리 캐시와 지표 수집 기능을 제공한다.
package indicator

import "sync/atomic"

// 스냅샷 키. 인사이트 프롬프트에 그대로 나열된다.
const (
	KeyInterestRate  = "미국 기준 금리"
	KeyGDPGrowth     = "미국 GDP 성장률"
	KeyTradeHeadline = "최신 무역 정책 헤드라인"
)

// Snapshot 은 지표 키→포맷된 값의 매핑 한 세트.
type Snapshot map[string]string

// Cache 는 프로세스 전역에서 공유되는 지표 스냅샷 캐시.
// 쓰기는 일일 갱신 잡 하나뿐이고 읽기는 임의 개수의 요청 핸들러가 동시에 수행한다.
// 갱신은 새 맵을 만들어 포인터를 한 번에 교체하는 방식이라 읽는 쪽은
// 항상 완전한 스냅샷(교체 전 또는 후)만 관찰하며 쓰기를 기다리지 않는다.
// 영속화하지 않으므로 재시작 시 비어 있다가 다음 갱신(또는 기동 직후 실행)에서 채워진다.
type Cache struct {
	snap atomic.Pointer[Snapshot]
}

// NewCache 는 빈 스냅샷으로 초기화된 Cache 를 생성한다.
func NewCache() *Cache {
	c := &Cache{}
	empty := Snapshot{}
	c.snap.Store(&empty)
	return c
}

// Snapshot 은 현재 스냅샷을 반환한다.
// 반환된 맵은 교체 전까지 불변으로 취급해야 하며 읽는 쪽에서 수정해서는 안 된다.
func (c *Cache) Snapshot() Snapshot {
	return *c.snap.Load()
}

// Replace 는 스냅샷 전체를 원자적으로 교체한다.
// 입력 맵을 복사해 저장하므로 호출 후 입력을 수정해도 캐시에 영향이 없다.
func (c *Cache) Replace(s Snapshot) {
	fresh := make(Snapshot, len(s))
	for k, v := range s {
		fresh[k] = v
	}
	c.snap.Store(&fresh)
}

// Merge 는 기존 스냅샷에 partial 의 키들을 덮어쓴 새 스냅샷을 만들어 원자적으로 교체한다.
// 일부 지표 수집만 성공한 사이클에서 성공한 값만 갱신할 때 사용한다.
func (c *Cache) Merge(partial Snapshot) {
	old := *c.snap.Load()
	fresh := make(Snapshot, len(old)+len(partial))
	for k, v := range old {
		fresh[k] = v
	}
	for k, v := range partial {
		fresh[k] = v
	}
	c.snap.Store(&fresh)
}

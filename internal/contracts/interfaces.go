package contracts

// TabularSource reads an external spreadsheet-like file (stage 1)
// ⭐ SSOT: 입력 파일 읽기 인터페이스
type TabularSource interface {
	Read(path string) (*RawTable, error)
}

// RecordValidator turns raw columns into a typed record set (stage 2)
// ⭐ SSOT: 스키마/타입/날짜 검증 인터페이스
type RecordValidator interface {
	Validate(raw *RawTable) (*RecordSet, error)
}

// TableAggregator runs the ratio catalog and merges everything into one table (stage 3)
// ⭐ SSOT: 결과 병합 인터페이스
type TableAggregator interface {
	Aggregate(rs *RecordSet) (*UnifiedTable, error)
}

package scenario

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/finratio/internal/valuation"
)

// Section names, also the top-level YAML keys
const (
	SectionWACC         = "wacc"
	SectionBond         = "bond"
	SectionStock        = "stock"
	SectionFreeCashFlow = "free_cash_flow"
)

// Scenario is one valuation input file. Every section is optional, at least one is required.
type Scenario struct {
	Name         string                        `yaml:"name,omitempty" json:"name,omitempty"`
	WACC         *valuation.WACCConfig         `yaml:"wacc,omitempty" json:"wacc,omitempty"`
	Bond         *valuation.BondConfig         `yaml:"bond,omitempty" json:"bond,omitempty"`
	Stock        *valuation.StockConfig        `yaml:"stock,omitempty" json:"stock,omitempty"`
	FreeCashFlow *valuation.FreeCashFlowConfig `yaml:"free_cash_flow,omitempty" json:"free_cash_flow,omitempty"`
}

// Sections lists the sections present, in evaluation order
func (s *Scenario) Sections() []string {
	var out []string
	if s.WACC != nil {
		out = append(out, SectionWACC)
	}
	if s.Bond != nil {
		out = append(out, SectionBond)
	}
	if s.Stock != nil {
		out = append(out, SectionStock)
	}
	if s.FreeCashFlow != nil {
		out = append(out, SectionFreeCashFlow)
	}
	return out
}

// ValidationError 시나리오 파일 구조 오류
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the scenario shape. Field-level checks belong to each calculator.
func Validate(s *Scenario) error {
	if len(s.Sections()) == 0 {
		return ValidationError{"scenario", "at least one of wacc, bond, stock, free_cash_flow is required"}
	}
	return nil
}

// Load reads a YAML scenario and returns it with the raw bytes
// ⭐ SSOT: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Scenario, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, data, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, data, nil
}

// Decode parses and validates a scenario from r
func Decode(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Hash is the SHA-256 of the scenario's canonical JSON
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(s *Scenario) (string, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

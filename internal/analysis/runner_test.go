package analysis

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finratio/internal/contracts"
	"github.com/wonny/finratio/internal/ratios"
	"github.com/wonny/finratio/pkg/config"
)

const balanceCSV = `period,receivables,cash,inventory,property_plant_equipment,current_assets,non_current_assets,total_assets,other_provisions,current_liabilities,non_current_liabilities,total_liabilities,equity,sales,cost_of_sales,financial_expenses,operating_income,pretax_income,net_income
1672444800000,100,50,80,400,300,700,1000,10,150,250,400,600,1460,730,20,200,180,135
1703980800000,200,60,120,600,400,1100,1500,30,200,400,600,900,1825,1095,50,250,200,150
`

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		Delimiter:  ",",
		Precision:  -1,
		DateLayout: "02-01-2006",
		Timezone:   "UTC",
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balance.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunner_Run(t *testing.T) {
	input := writeInput(t, balanceCSV)
	output := filepath.Join(t.TempDir(), "calculated.csv")

	summary, err := NewFromConfig(testConfig(), nil).Run(context.Background(), Request{
		InputPath:  input,
		OutputPath: output,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(summary.RunID)
	assert.NoError(t, err, "run id is a uuid")
	assert.Equal(t, 2, summary.Periods)
	assert.Equal(t, 1+len(contracts.NumericItems)+len(ratios.Default().Names()), summary.Columns)
	assert.Equal(t, []string{StageRead, StageValidate, StageAggregate, StageWrite}, summary.CompletedStages)
	assert.Equal(t, output, summary.Output)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	header := records[0]
	assert.Equal(t, "period", header[0])
	assert.Equal(t, "31-12-2022", records[1][0])
	assert.Equal(t, "31-12-2023", records[2][0])

	roe := -1
	for i, name := range header {
		if name == ratios.ROE {
			roe = i
		}
	}
	require.NotEqual(t, -1, roe)
	assert.Equal(t, "0.225", records[1][roe])
}

func TestRunner_Check(t *testing.T) {
	rs, summary, err := NewFromConfig(testConfig(), nil).Check(context.Background(), writeInput(t, balanceCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"31-12-2022", "31-12-2023"}, rs.Periods())
	assert.Equal(t, []string{StageRead, StageValidate}, summary.CompletedStages)
	assert.Empty(t, summary.IgnoredColumns)
}

// withExtraColumns appends "zeta" and "notes" columns to every line of balanceCSV.
func withExtraColumns() string {
	lines := strings.Split(strings.TrimSpace(balanceCSV), "\n")
	lines[0] += ",zeta,notes"
	for i := 1; i < len(lines); i++ {
		lines[i] += ",1,audited"
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestRunner_IgnoredColumns(t *testing.T) {
	input := writeInput(t, withExtraColumns())

	t.Run("rejected by default", func(t *testing.T) {
		_, _, err := NewFromConfig(testConfig(), nil).Check(context.Background(), input)
		var schemaErr *contracts.SchemaValidationError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{"notes", "zeta"}, schemaErr.Extra)
	})

	t.Run("reported when allowed", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowExtraColumns = true
		r := NewFromConfig(cfg, nil)

		_, summary, err := r.Check(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, []string{"notes", "zeta"}, summary.IgnoredColumns)

		output := filepath.Join(t.TempDir(), "calculated.csv")
		runSummary, err := r.Run(context.Background(), Request{InputPath: input, OutputPath: output})
		require.NoError(t, err)
		assert.Equal(t, []string{"notes", "zeta"}, runSummary.IgnoredColumns)
		assert.Equal(t, 1+len(contracts.NumericItems)+len(ratios.Default().Names()), runSummary.Columns)
	})
}

func TestRunner_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			input:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.csv") },
			wantErr: contracts.ErrSourceRead,
		},
		{
			name: "schema",
			input: func(t *testing.T) string {
				return writeInput(t, strings.Replace(balanceCSV, "net_income", "profit", 1))
			},
			wantErr: contracts.ErrSchemaValidation,
		},
		{
			name: "zero denominator",
			input: func(t *testing.T) string {
				// equity of the second period is zero
				return writeInput(t, strings.Replace(balanceCSV, ",600,900,1825,", ",600,0,1825,", 1))
			},
			wantErr: contracts.ErrDivisionByZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "calculated.csv")
			_, err := NewFromConfig(testConfig(), nil).Run(context.Background(), Request{
				InputPath:  tt.input(t),
				OutputPath: output,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr), "no output on failure")
		})
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFromConfig(testConfig(), nil).Run(ctx, Request{
		InputPath:  writeInput(t, balanceCSV),
		OutputPath: filepath.Join(t.TempDir(), "calculated.csv"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RequiresPaths(t *testing.T) {
	r := NewFromConfig(testConfig(), nil)

	_, err := r.Run(context.Background(), Request{OutputPath: "out.csv"})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), Request{InputPath: "in.csv"})
	assert.Error(t, err)

	_, _, err = r.Check(context.Background(), "")
	assert.Error(t, err)
}

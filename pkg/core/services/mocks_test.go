package services

import (
	"context"
	"sort"

	"github.com/jakechorley/publication-allocator/internal/config"
	"github.com/jakechorley/publication-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/publication-allocator/pkg/core/allocator"
	"github.com/jakechorley/publication-allocator/pkg/core/model"
	"github.com/jakechorley/publication-allocator/pkg/db"
)

// mockRunStore implements AllocateRunStore and RunReader in memory
type mockRunStore struct {
	runs        []db.Run
	checkpoints []db.Checkpoint
	accepted    []db.AcceptedPublication

	insertRunErr error
	getRunsErr   error
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.Run) error {
	if m.insertRunErr != nil {
		return m.insertRunErr
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockRunStore) InsertCheckpoints(ctx context.Context, checkpoints []db.Checkpoint) error {
	m.checkpoints = append(m.checkpoints, checkpoints...)
	return nil
}

func (m *mockRunStore) InsertAcceptedPublications(ctx context.Context, accepted []db.AcceptedPublication) error {
	m.accepted = append(m.accepted, accepted...)
	return nil
}

func (m *mockRunStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	runs := append([]db.Run{}, m.runs...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt > runs[j].CreatedAt })
	return runs, nil
}

func (m *mockRunStore) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	for i := range m.runs {
		if m.runs[i].ID == runID {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockRunStore) GetCheckpoints(ctx context.Context, runID string) ([]db.Checkpoint, error) {
	checkpoints := []db.Checkpoint{}
	for _, cp := range m.checkpoints {
		if cp.RunID == runID {
			checkpoints = append(checkpoints, cp)
		}
	}
	return checkpoints, nil
}

func (m *mockRunStore) GetAcceptedPublications(ctx context.Context, runID string) ([]db.AcceptedPublication, error) {
	accepted := []db.AcceptedPublication{}
	for _, a := range m.accepted {
		if a.RunID == runID {
			accepted = append(accepted, a)
		}
	}
	return accepted, nil
}

// mockPublisher implements RunPublisher
type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedRun
	err           error
}

func (m *mockPublisher) PublishRun(spreadsheetID string, run *sheetsclient.PublishedRun) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.spreadsheetID = spreadsheetID
	m.published = run
	return "Run " + run.RunID, nil
}

func testConfig(resultsDir string) *config.Config {
	limits := allocator.DefaultLimits()
	return &config.Config{
		Allocation: config.AllocationSettings{
			ThresholdMultipliers:    []int{1, 10, 100},
			CancellationProbability: 0.5,
			HeuristicRatio:          1.0,
			Seed:                    7,
			Restarts:                1,
			InitialSelection:        "none",
			InitialPerAuthor:        1,
		},
		Limits: config.LimitsSettings{
			PublicationCoefficient:   limits.PublicationCoefficient,
			MonographCoefficient:     limits.MonographCoefficient,
			MonographExemptionPoints: limits.MonographExemptionPoints,
			PhDCeiling:               limits.PhDCeiling,
			EmployeeCoefficient:      limits.EmployeeCoefficient,
			N0Coefficient:            limits.N0Coefficient,
			N1Coefficient:            limits.N1Coefficient,
			N2Coefficient:            limits.N2Coefficient,
			MonographShare:           limits.MonographShare,
			PhDOutsiderShare:         limits.PhDOutsiderShare,
		},
		Storage:    config.StorageSettings{Driver: "sqlite", DSN: ":memory:"},
		ResultsDir: resultsDir,
	}
}

// twoAuthorDataset: x owns px (10 points), y owns py (5 points); both fit, objective 15
func twoAuthorDataset() model.Dataset {
	return model.Dataset{
		Employees:                2,
		PublicationCount:         2,
		AuthorIDs:                []string{"x", "y"},
		Contributions:            []float64{1, 1},
		IsPhDStudent:             []bool{false, false},
		IsEmployee:               []bool{true, true},
		IsInN:                    []bool{true, true},
		PublicationIDs:           []string{"px", "py"},
		IsMonograph:              []bool{false, false},
		Points:                   [][]float64{{10, 0}, {0, 5}},
		PublicationContributions: [][]float64{{1, 0}, {0, 1}},
	}
}

const twoAuthorInput = `
A = 2;
N0 = 0;
N1 = 0;
N2 = 0;
P = 2;
authorIdList = ["x", "y"];
publicationIdList = ["px", "py"];
udzial = [1.0, 1.0];
doktorant = [0, 0];
pracownik = [1, 1];
czyN = [1, 1];
monografia = [0, 0];
w = [[10, 0], [0, 5]];
u = [[1, 0], [0, 1]];
`

func int64Ptr(v int64) *int64 {
	return &v
}

// Package roster implements the roster store: the only owner of a player's
// companions. Every mutation reads the whole roster, changes it, and writes
// it back as a single blob.
package roster

//go:generate mockgen -destination=mock/mock_service.go -package=rostermock github.com/KirkDiggler/pokestory-api/internal/orchestrators/roster Service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/KirkDiggler/pokestory-api/internal/entities"
	"github.com/KirkDiggler/pokestory-api/internal/errors"
	"github.com/KirkDiggler/pokestory-api/internal/pkg/idgen"
	rosterrepo "github.com/KirkDiggler/pokestory-api/internal/repositories/roster"
)

// MaxNicknameLength bounds user-supplied nicknames
const MaxNicknameLength = 40

// Service defines the interface for roster operations
type Service interface {
	// Load returns the stored roster, or an empty one when nothing usable is stored.
	// A corrupt blob is discarded and logged, never surfaced.
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Adopt appends a companion unless the roster is full
	Adopt(ctx context.Context, input *AdoptInput) (*AdoptOutput, error)
	// Release removes a companion; releasing an unknown ID is a no-op
	Release(ctx context.Context, input *ReleaseInput) (*ReleaseOutput, error)
	// Update replaces a companion by ID; an unknown ID is logged and reported, not an error
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)
	// RecordProgress copies level, experience, stats and traits from a working
	// copy onto the stored companion. The stored nickname is kept, so a rename
	// made during a story survives. Recording the same values twice is a no-op.
	RecordProgress(ctx context.Context, input *RecordProgressInput) (*RecordProgressOutput, error)

	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	Rename(ctx context.Context, input *RenameInput) (*RenameOutput, error)

	// Repair sweeps storage for rosters that no longer decode
	Repair(ctx context.Context, input *RepairInput) (*RepairOutput, error)
}

// Config holds the dependencies for the roster orchestrator
type Config struct {
	Repository  rosterrepo.Repository
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	repo  rosterrepo.Repository
	idGen idgen.Generator

	// read-modify-write cycles for one player are serialized in-process
	locks sync.Map
}

// NewOrchestrator creates a new roster orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:  cfg.Repository,
		idGen: cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) lock(playerID string) func() {
	value, _ := o.locks.LoadOrStore(playerID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (o *orchestrator) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	return &LoadOutput{Roster: roster}, nil
}

// load never fails on missing or corrupt data, only on storage errors
func (o *orchestrator) load(ctx context.Context, playerID string) (*entities.Roster, error) {
	out, err := o.repo.Get(ctx, rosterrepo.GetInput{PlayerID: playerID})
	switch {
	case err == nil:
		return out.Roster, nil
	case errors.IsNotFound(err):
		return &entities.Roster{Companions: []*entities.Companion{}}, nil
	case errors.GetCode(err) == errors.CodeDataLoss:
		slog.WarnContext(ctx, "discarding corrupt roster",
			"player_id", playerID,
			"error", err)
		if _, delErr := o.repo.Delete(ctx, rosterrepo.DeleteInput{PlayerID: playerID}); delErr != nil {
			slog.ErrorContext(ctx, "failed to remove corrupt roster",
				"player_id", playerID,
				"error", delErr)
		}
		return &entities.Roster{Companions: []*entities.Companion{}}, nil
	default:
		return nil, errors.Wrap(err, "failed to load roster")
	}
}

func (o *orchestrator) save(ctx context.Context, playerID string, roster *entities.Roster) error {
	if _, err := o.repo.Save(ctx, rosterrepo.SaveInput{PlayerID: playerID, Roster: roster}); err != nil {
		return errors.Wrap(err, "failed to save roster")
	}
	return nil
}

func (o *orchestrator) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.Roster == nil {
		vb.RequiredField("roster")
	} else if input.Roster.Len() > entities.MaxRosterSize {
		vb.Fieldf("roster", "cannot hold more than %d companions", entities.MaxRosterSize)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	if err := o.save(ctx, input.PlayerID, input.Roster.Clone()); err != nil {
		return nil, err
	}

	return &SaveOutput{}, nil
}

func (o *orchestrator) Adopt(ctx context.Context, input *AdoptInput) (*AdoptOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.Companion == nil {
		vb.RequiredField("companion")
	} else {
		errors.ValidateRequired("companion.species_name", input.Companion.SpeciesName, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	if roster.Full() {
		slog.InfoContext(ctx, "roster full, adoption refused",
			"player_id", input.PlayerID,
			"species", input.Companion.SpeciesName)
		return &AdoptOutput{Adopted: false, Roster: roster}, nil
	}

	companion := input.Companion.Clone()
	if companion.ID == "" {
		companion.ID = o.idGen.Generate()
	}
	if roster.IndexOf(companion.ID) >= 0 {
		return nil, errors.Newf(errors.CodeAlreadyExists, "companion %s is already on the roster", companion.ID)
	}

	roster.Companions = append(roster.Companions, companion)
	if err := o.save(ctx, input.PlayerID, roster); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "companion adopted",
		"player_id", input.PlayerID,
		"companion_id", companion.ID,
		"species", companion.SpeciesName)

	return &AdoptOutput{
		Adopted:   true,
		Companion: companion.Clone(),
		Roster:    roster,
	}, nil
}

func (o *orchestrator) Release(ctx context.Context, input *ReleaseInput) (*ReleaseOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("companion_id", input.CompanionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	before := roster.Len()
	roster.Companions = slices.DeleteFunc(roster.Companions, func(c *entities.Companion) bool {
		return c.ID == input.CompanionID
	})
	released := roster.Len() < before

	if err := o.save(ctx, input.PlayerID, roster); err != nil {
		return nil, err
	}

	return &ReleaseOutput{Released: released, Roster: roster}, nil
}

func (o *orchestrator) Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.Companion == nil {
		vb.RequiredField("companion")
	} else {
		errors.ValidateRequired("companion.id", input.Companion.ID, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	updated, err := o.update(ctx, input.PlayerID, input.Companion)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{Updated: updated}, nil
}

// update must be called with the player's lock held
func (o *orchestrator) update(ctx context.Context, playerID string, companion *entities.Companion) (bool, error) {
	roster, err := o.load(ctx, playerID)
	if err != nil {
		return false, err
	}

	idx := roster.IndexOf(companion.ID)
	if idx < 0 {
		slog.WarnContext(ctx, "update for companion not on roster",
			"player_id", playerID,
			"companion_id", companion.ID)
		return false, nil
	}

	roster.Companions[idx] = companion.Clone()
	if err := o.save(ctx, playerID, roster); err != nil {
		return false, err
	}

	return true, nil
}

func (o *orchestrator) RecordProgress(ctx context.Context, input *RecordProgressInput) (*RecordProgressOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	if input.Companion == nil {
		vb.RequiredField("companion")
	} else {
		errors.ValidateRequired("companion.id", input.Companion.ID, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	idx := roster.IndexOf(input.Companion.ID)
	if idx < 0 {
		slog.WarnContext(ctx, "progress for companion not on roster",
			"player_id", input.PlayerID,
			"companion_id", input.Companion.ID)
		return &RecordProgressOutput{Recorded: false}, nil
	}

	merged := roster.Companions[idx].WithProgressOf(input.Companion)
	roster.Companions[idx] = merged
	if err := o.save(ctx, input.PlayerID, roster); err != nil {
		return nil, err
	}

	return &RecordProgressOutput{Recorded: true, Companion: merged.Clone()}, nil
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("companion_id", input.CompanionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	idx := roster.IndexOf(input.CompanionID)
	if idx < 0 {
		return nil, errors.NotFoundf("companion %s not found", input.CompanionID)
	}

	return &GetOutput{Companion: roster.Companions[idx]}, nil
}

func (o *orchestrator) Rename(ctx context.Context, input *RenameInput) (*RenameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	nickname := strings.TrimSpace(input.Nickname)

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("companion_id", input.CompanionID, vb)
	errors.ValidateRequired("nickname", nickname, vb)
	if len([]rune(nickname)) > MaxNicknameLength {
		vb.Fieldf("nickname", "must be at most %d characters", MaxNicknameLength)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.lock(input.PlayerID)
	defer unlock()

	roster, err := o.load(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}

	idx := roster.IndexOf(input.CompanionID)
	if idx < 0 {
		return nil, errors.NotFoundf("companion %s not found", input.CompanionID)
	}

	companion := roster.Companions[idx].Clone()
	companion.Nickname = nickname

	updated, err := o.update(ctx, input.PlayerID, companion)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errors.NotFoundf("companion %s not found", input.CompanionID)
	}

	return &RenameOutput{Companion: companion}, nil
}

func (o *orchestrator) Repair(ctx context.Context, input *RepairInput) (*RepairOutput, error) {
	if input == nil {
		input = &RepairInput{}
	}

	out, err := o.repo.Repair(ctx, rosterrepo.RepairInput{DryRun: input.DryRun})
	if err != nil {
		return nil, errors.Wrap(err, "failed to repair rosters")
	}

	slog.InfoContext(ctx, "roster repair finished",
		"checked", out.Checked,
		"corrupt", len(out.CorruptKeys),
		"dry_run", input.DryRun)

	return &RepairOutput{
		Checked:     out.Checked,
		CorruptKeys: out.CorruptKeys,
	}, nil
}

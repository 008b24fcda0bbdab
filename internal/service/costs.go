package service

import (
	"strconv"
	"sync"

	"wakili/internal/domain"
	"wakili/internal/repository"
)

// CostTable maps action name to base cost in coins. The table is data,
// not logic: costs live in system settings under cost.<action> keys and
// can be retuned without a deploy.
type CostTable map[string]int64

// DefaultCosts mirrors the live configuration: social actions are free,
// contact-style unlocks cost one coin.
func DefaultCosts() CostTable {
	return CostTable{
		domain.ActionInterest:         0,
		domain.ActionSuperInterest:    0,
		domain.ActionShortlist:        0,
		domain.ActionRemoveShortlist:  0,
		domain.ActionUpgradeSuper:     0,
		domain.ActionChat:             1,
		domain.ActionViewContact:      1,
		domain.ActionUnlockContact:    1,
		domain.ActionAccept:           0,
		domain.ActionDecline:          0,
		domain.ActionBlock:            0,
		domain.ActionUnblock:          0,
		domain.ActionWithdraw:         0,
		domain.ActionCancel:           0,
		domain.ActionRemoveConnection: 0,
		domain.ActionIgnore:           0,
		domain.ActionSuperAccept:      0,
		domain.ActionMeetRequest:      0,
	}
}

const costKeyPrefix = "cost."

// CostDefaultsForSeed renders the default table as setting rows.
func CostDefaultsForSeed() map[string]string {
	out := make(map[string]string)
	for action, cost := range DefaultCosts() {
		out[costKeyPrefix+action] = strconv.FormatInt(cost, 10)
	}
	return out
}

// CostProvider serves the current cost table, reloading from settings on
// demand so admin edits take effect without a restart.
type CostProvider struct {
	mu       sync.RWMutex
	settings *repository.SettingRepository
	table    CostTable
}

func NewCostProvider(settings *repository.SettingRepository) *CostProvider {
	return &CostProvider{settings: settings, table: DefaultCosts()}
}

// Reload pulls cost.* settings over the defaults.
func (p *CostProvider) Reload() error {
	table := DefaultCosts()
	if p.settings != nil {
		stored, err := p.settings.GetPrefix(costKeyPrefix)
		if err != nil {
			return err
		}
		for key, raw := range stored {
			action := key[len(costKeyPrefix):]
			if cost, err := strconv.ParseInt(raw, 10, 64); err == nil && cost >= 0 {
				table[action] = cost
			}
		}
	}
	p.mu.Lock()
	p.table = table
	p.mu.Unlock()
	return nil
}

// Cost returns the base cost for an action; unknown actions report ok=false.
func (p *CostProvider) Cost(action string) (int64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cost, ok := p.table[action]
	return cost, ok
}

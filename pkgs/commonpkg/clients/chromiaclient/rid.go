package chromiaclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

////////////////////////////////////////////////////////////////////////////////

// ResolveRID returns the RID of the configured blockchain, asking pmc once
// and reusing the answer until a command against it fails.
func (c *client) ResolveRID(ctx context.Context) (string, error) {
	c.mu.Lock()
	rid := c.rid
	c.mu.Unlock()
	if rid != "" {
		return rid, nil
	}

	result, err := c.run(ctx, c.cfg.PmcBin, "blockchains")
	if err != nil {
		return "", fmt.Errorf("failed to list blockchains: %w", err)
	}

	rid, err = selectRID(result.Stdout, c.cfg.BlockchainName)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.rid = rid
	c.mu.Unlock()
	c.logger.WithField("rid", rid).Debug("resolved blockchain rid")
	return rid, nil
}

func (c *client) forgetRID() {
	c.mu.Lock()
	c.rid = ""
	c.mu.Unlock()
}

// selectRID picks the Rid of the entry named name out of pmc's JSON list.
func selectRID(out []byte, name string) (string, error) {
	if !gjson.ValidBytes(out) {
		return "", fmt.Errorf("%w: unreadable blockchain list", ErrRIDNotFound)
	}

	var rid string
	gjson.ParseBytes(out).ForEach(func(_, chain gjson.Result) bool {
		if chain.Get("Name").String() == name {
			rid = strings.TrimSpace(chain.Get("Rid").String())
			return false
		}
		return true
	})
	if rid == "" {
		return "", fmt.Errorf("%w: %s", ErrRIDNotFound, name)
	}
	return rid, nil
}

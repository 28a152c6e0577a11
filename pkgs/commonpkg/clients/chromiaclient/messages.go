package chromiaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/resultparser"
)

////////////////////////////////////////////////////////////////////////////////

const (
	OP_ADD_MESSAGE          = "add_message"
	QUERY_CLOSEST_OBJECTS   = "query_closest_objects"
	QUERY_TEMPLATE_MESSAGES = `query_template=["type":"get_messages_with_distance"]`
	TX_CONFIRMED_MARKER     = "CONFIRMED"
)

////////////////////////////////////////////////////////////////////////////////

// Insert stores text with its embedding through an add_message transaction.
// Only output containing the CONFIRMED marker counts as success. Text
// starting with "-" is rejected since chr would read it as an option.
func (c *client) Insert(ctx context.Context, text string, vector []float32) error {
	if strings.HasPrefix(text, "-") {
		return fmt.Errorf("%w: text must not start with \"-\"", ErrInvalidText)
	}
	rid, err := c.ResolveRID(ctx)
	if err != nil {
		return err
	}
	encoded, err := encodeVector(vector)
	if err != nil {
		return err
	}

	result, err := c.run(ctx, c.cfg.ChrBin, "tx", "-brid", rid, OP_ADD_MESSAGE, text, encoded)
	if err != nil {
		c.forgetRID()
		return fmt.Errorf("failed to add message: %w", err)
	}

	if !bytes.Contains(result.Stdout, []byte(TX_CONFIRMED_MARKER)) {
		output := strings.TrimSpace(string(result.Stdout) + " " + string(result.Stderr))
		return fmt.Errorf("%w: %s", ErrNotConfirmed, output)
	}
	return nil
}

// Query returns up to maxResults stored messages closest to vector, in the
// order the node reports them.
func (c *client) Query(ctx context.Context, vector []float32, maxResults int) ([]model.SimilarityResult, error) {
	if maxResults <= 0 {
		return []model.SimilarityResult{}, nil
	}
	rid, err := c.ResolveRID(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := encodeVector(vector)
	if err != nil {
		return nil, err
	}

	result, err := c.run(
		ctx,
		c.cfg.ChrBin,
		"query",
		"-brid", rid,
		QUERY_CLOSEST_OBJECTS,
		"context=0",
		"q_vector="+encoded,
		"max_distance="+formatDistance(c.cfg.MaxDistance),
		"max_vectors="+strconv.Itoa(maxResults),
		QUERY_TEMPLATE_MESSAGES,
	)
	if err != nil {
		c.forgetRID()
		return nil, fmt.Errorf("failed to query closest messages: %w", err)
	}

	results, err := resultparser.ParseResults(result.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query output: %w", err)
	}
	return results, nil
}

// Ping resolves the RID again, so a node that went away is noticed.
func (c *client) Ping(ctx context.Context) error {
	c.forgetRID()
	_, err := c.ResolveRID(ctx)
	return err
}

////////////////////////////////////////////////////////////////////////////////

func encodeVector(vector []float32) (string, error) {
	if len(vector) == 0 {
		return "", fmt.Errorf("empty embedding vector")
	}
	encoded, err := json.Marshal(vector)
	if err != nil {
		return "", fmt.Errorf("failed to encode vector: %w", err)
	}
	return string(encoded), nil
}

// formatDistance always keeps a decimal point, the node rejects integers here.
func formatDistance(d float64) string {
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

package chromiaclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/resultparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pmcOutput = `[
	{"Name": "other_chain", "Rid": "AAAA"},
	{"Name": "vector_blockchain", "Rid": "5E2488889F72939DD1BD9DAEFB6DD4A1"}
]`

const rid = "5E2488889F72939DD1BD9DAEFB6DD4A1"

type fakeRunner struct {
	mu       sync.Mutex
	commands []Command
	handle   func(cmd Command) (*Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()
	return f.handle(cmd)
}

func (f *fakeRunner) count(binary string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, cmd := range f.commands {
		if cmd.Binary == binary {
			n++
		}
	}
	return n
}

func (f *fakeRunner) last() Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commands[len(f.commands)-1]
}

func newFake(chr func(cmd Command) (*Result, error)) *fakeRunner {
	return &fakeRunner{handle: func(cmd Command) (*Result, error) {
		if cmd.Binary == "pmc" {
			return &Result{Stdout: []byte(pmcOutput)}, nil
		}
		return chr(cmd)
	}}
}

////////////////////////////////////////////////////////////////////////////////

func TestResolveRIDCachesResult(t *testing.T) {
	runner := newFake(nil)
	c := New(Config{}, runner)

	for i := 0; i < 3; i++ {
		got, err := c.ResolveRID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, rid, got)
	}
	assert.Equal(t, 1, runner.count("pmc"))
	assert.Equal(t, []string{"blockchains"}, runner.last().Args)
}

func TestSelectRID(t *testing.T) {
	got, err := selectRID([]byte(pmcOutput), "other_chain")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", got)

	_, err = selectRID([]byte(pmcOutput), "missing_chain")
	assert.ErrorIs(t, err, ErrRIDNotFound)

	_, err = selectRID([]byte(`[]`), "vector_blockchain")
	assert.ErrorIs(t, err, ErrRIDNotFound)

	_, err = selectRID([]byte("pmc: command not configured"), "vector_blockchain")
	assert.ErrorIs(t, err, ErrRIDNotFound)
}

func TestInsertPassesArgvWithoutShellQuoting(t *testing.T) {
	runner := newFake(func(cmd Command) (*Result, error) {
		return &Result{Stdout: []byte("transaction with rid 01AB was posted CONFIRMED")}, nil
	})
	c := New(Config{WorkDir: "/srv/rell"}, runner)

	text := `Bitcoin's "halving" $(rm -rf /) ; echo pwned`
	err := c.Insert(context.Background(), text, []float32{0.5, -0.25})
	require.NoError(t, err)

	cmd := runner.last()
	assert.Equal(t, "chr", cmd.Binary)
	assert.Equal(t, "/srv/rell", cmd.Dir)
	assert.Equal(t, []string{"tx", "-brid", rid, "add_message", text, "[0.5,-0.25]"}, cmd.Args)
}

func TestInsertNotConfirmed(t *testing.T) {
	runner := newFake(func(cmd Command) (*Result, error) {
		return &Result{Stdout: []byte("transaction REJECTED: duplicate")}, nil
	})
	c := New(Config{}, runner)

	err := c.Insert(context.Background(), "hello", []float32{1})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Contains(t, err.Error(), "REJECTED: duplicate")
}

func TestInsertRejectsEmptyVector(t *testing.T) {
	c := New(Config{}, newFake(nil))
	assert.Error(t, c.Insert(context.Background(), "hello", nil))
}

func TestInsertRejectsOptionLikeText(t *testing.T) {
	runner := newFake(nil)
	c := New(Config{}, runner)

	err := c.Insert(context.Background(), "--help", []float32{0.1})
	assert.ErrorIs(t, err, ErrInvalidText)
	assert.Empty(t, runner.commands)
}

func TestQueryBuildsArgvAndParses(t *testing.T) {
	runner := newFake(func(cmd Command) (*Result, error) {
		return &Result{Stdout: []byte(`[
  [
    "distance": "0.123456",
    "text": "Bitcoin halving happens every four years"
  ],
  [
    "distance": "0.42",
    "text": "Ethereum moved to proof of stake"
  ]
]`)}, nil
	})
	c := New(Config{}, runner)

	results, err := c.Query(context.Background(), []float32{0.1, 0.2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []model.SimilarityResult{
		{Text: "Bitcoin halving happens every four years", Distance: 0.123456},
		{Text: "Ethereum moved to proof of stake", Distance: 0.42},
	}, results)

	assert.Equal(t, []string{
		"query",
		"-brid", rid,
		"query_closest_objects",
		"context=0",
		"q_vector=[0.1,0.2]",
		"max_distance=1.0",
		"max_vectors=3",
		`query_template=["type":"get_messages_with_distance"]`,
	}, runner.last().Args)
}

func TestQueryEmptyOutput(t *testing.T) {
	for _, out := range []string{"", "[]"} {
		runner := newFake(func(cmd Command) (*Result, error) {
			return &Result{Stdout: []byte(out)}, nil
		})
		results, err := New(Config{}, runner).Query(context.Background(), []float32{1}, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
}

func TestQueryMalformedOutput(t *testing.T) {
	runner := newFake(func(cmd Command) (*Result, error) {
		return &Result{Stdout: []byte(`[["text": "orphan"]]`)}, nil
	})
	_, err := New(Config{}, runner).Query(context.Background(), []float32{1}, 5)
	assert.ErrorIs(t, err, resultparser.ErrMalformed)
}

func TestFailedCommandForgetsRID(t *testing.T) {
	fail := true
	runner := newFake(func(cmd Command) (*Result, error) {
		if fail {
			return &Result{}, errors.Join(ErrCommandFailed, errors.New("node down"))
		}
		return &Result{Stdout: []byte("[]")}, nil
	})
	c := New(Config{}, runner)

	_, err := c.Query(context.Background(), []float32{1}, 1)
	assert.ErrorIs(t, err, ErrCommandFailed)

	fail = false
	_, err = c.Query(context.Background(), []float32{1}, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, runner.count("pmc"))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "1.0", formatDistance(1))
	assert.Equal(t, "0.75", formatDistance(0.75))
}

func TestPingResolvesAgain(t *testing.T) {
	runner := newFake(nil)
	c := New(Config{}, runner)

	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 2, runner.count("pmc"))

	down := &fakeRunner{handle: func(cmd Command) (*Result, error) {
		return nil, ErrCommandFailed
	}}
	c = New(Config{}, down)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrCommandFailed)
}

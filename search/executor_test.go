package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/halcyondata/paperdex/ai/mock"
	"github.com/halcyondata/paperdex/core"
	"github.com/halcyondata/paperdex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t *testing.T, n int) *index.Index {
	t.Helper()

	docs := make([]core.Document, n)
	vectors := make([][]float32, n)
	for i := range docs {
		docs[i] = core.Document{Content: fmt.Sprintf("passage %d about neural networks", i)}
		vectors[i] = mock.DeterministicVector(docs[i].Content, 32)
	}

	ix, err := index.FromBatch(docs, vectors)
	require.NoError(t, err)
	return ix
}

func TestNewExecutor(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		executor, err := NewExecutor(mock.NewMockProvider())
		require.NoError(t, err)
		defer executor.Release()
		assert.NotNil(t, executor)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewExecutor(nil)
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("with options", func(t *testing.T) {
		executor, err := NewExecutor(mock.NewMockProvider(),
			WithTimeout(5*time.Second), WithTopK(5), WithPoolSize(2))
		require.NoError(t, err)
		defer executor.Release()
		assert.Equal(t, 5*time.Second, executor.timeout)
		assert.Equal(t, 5, executor.topK)
	})
}

func TestQueryReturnsAnswerWithSources(t *testing.T) {
	provider := mock.NewMockProvider()
	executor, err := NewExecutor(provider, WithTopK(3))
	require.NoError(t, err)
	defer executor.Release()

	ix := testIndex(t, 20)

	result, err := executor.Query(context.Background(), ix, "passage 4 about neural networks")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Answer)
	require.NotEmpty(t, result.Sources)
	assert.LessOrEqual(t, len(result.Sources), 3)
	assert.Equal(t, "passage 4 about neural networks", result.Sources[0].Document.Content)
	assert.Equal(t, 1, provider.MockAnswerer.CallCount())
}

func TestQueryInputValidation(t *testing.T) {
	executor, err := NewExecutor(mock.NewMockProvider())
	require.NoError(t, err)
	defer executor.Release()

	_, err = executor.Query(context.Background(), nil, "a question")
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = executor.Query(context.Background(), testIndex(t, 3), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestQueryTimeout(t *testing.T) {
	provider := mock.NewMockProvider()
	release := make(chan struct{})
	provider.MockAnswerer.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		<-release
		return "late answer", nil
	}
	defer close(release)

	executor, err := NewExecutor(provider, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	defer executor.Release()

	start := time.Now()
	_, err = executor.Query(context.Background(), testIndex(t, 5), "will this finish?")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrQueryTimeout)
	assert.Less(t, elapsed, 2*time.Second, "caller must be released promptly after the timeout")
}

func TestQueryTimeoutWithSaturatedPool(t *testing.T) {
	provider := mock.NewMockProvider()
	release := make(chan struct{})
	provider.MockAnswerer.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		<-release
		return "late answer", nil
	}
	defer close(release)

	// A single-slot pool: the first query's abandoned worker keeps holding
	// the slot, so the second query cannot even be scheduled.
	executor, err := NewExecutor(provider,
		WithPoolSize(1), WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer executor.Release()

	ix := testIndex(t, 5)

	_, err = executor.Query(context.Background(), ix, "first query hangs")
	require.ErrorIs(t, err, ErrQueryTimeout)

	start := time.Now()
	_, err = executor.Query(context.Background(), ix, "second query must not wait for the slot")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrQueryTimeout)
	assert.Less(t, elapsed, 2*time.Second,
		"timeout must bound the wait even when every pool slot is held")
}

func TestQueryContextCancellation(t *testing.T) {
	provider := mock.NewMockProvider()
	release := make(chan struct{})
	provider.MockAnswerer.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		<-release
		return "late answer", nil
	}
	defer close(release)

	executor, err := NewExecutor(provider, WithTimeout(10*time.Second))
	require.NoError(t, err)
	defer executor.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = executor.Query(ctx, testIndex(t, 5), "cancelled mid-flight")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryPropagatesWorkerFailure(t *testing.T) {
	provider := mock.NewMockProvider()
	wantErr := errors.New("model unavailable")
	provider.MockAnswerer.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		return "", wantErr
	}

	executor, err := NewExecutor(provider)
	require.NoError(t, err)
	defer executor.Release()

	_, err = executor.Query(context.Background(), testIndex(t, 5), "does failure propagate?")
	assert.ErrorIs(t, err, wantErr)
}

func TestQueryEmbeddingFailure(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.MockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	executor, err := NewExecutor(provider)
	require.NoError(t, err)
	defer executor.Release()

	_, err = executor.Query(context.Background(), testIndex(t, 5), "does embed failure propagate?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed question")
	assert.Equal(t, 0, provider.MockAnswerer.CallCount())
}

func TestConcurrentQueries(t *testing.T) {
	executor, err := NewExecutor(mock.NewMockProvider(), WithPoolSize(4))
	require.NoError(t, err)
	defer executor.Release()

	ix := testIndex(t, 20)

	const queries = 8
	errs := make(chan error, queries)
	for i := 0; i < queries; i++ {
		question := fmt.Sprintf("passage %d about neural networks", i)
		go func() {
			_, err := executor.Query(context.Background(), ix, question)
			errs <- err
		}()
	}

	for i := 0; i < queries; i++ {
		assert.NoError(t, <-errs)
	}
}

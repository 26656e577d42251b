package recognizer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestLexicon(t *testing.T) {
	lexicon := NewLexicon()

	t.Run("french honorific", func(t *testing.T) {
		text := "Merci de contacter M. Jean Dupont au bureau."
		spans, err := lexicon.Recognize(context.Background(), text, "fr")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "Jean Dupont", spans[0].Text)
		assert.Equal(t, "PER", spans[0].Label)
		assert.Equal(t, text[spans[0].Start:spans[0].End], spans[0].Text)
	})

	t.Run("english honorific", func(t *testing.T) {
		spans, err := lexicon.Recognize(context.Background(), "Please ask Mrs. Smith for the file.", "en")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "Smith", spans[0].Text)
	})

	t.Run("accented name", func(t *testing.T) {
		spans, err := lexicon.Recognize(context.Background(), "Madame Hélène Lefèvre est absente.", "fr")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "Hélène Lefèvre", spans[0].Text)
	})

	t.Run("bare capitalized words ignored", func(t *testing.T) {
		spans, err := lexicon.Recognize(context.Background(), "Paris Monday Report deadline is Friday.", "en")
		require.NoError(t, err)
		assert.Empty(t, spans)
	})

	t.Run("unknown language falls back to french patterns", func(t *testing.T) {
		spans, err := lexicon.Recognize(context.Background(), "Mme Durand a signé.", "de")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "Durand", spans[0].Text)
	})
}

func TestSidecar(t *testing.T) {
	t.Run("spans returned", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/classify", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, "fr", gjson.GetBytes(body, "lang").String())
			assert.Equal(t, "Jean travaille ici", gjson.GetBytes(body, "text").String())

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"spans":[{"text":"Jean","label":"PER","start":0,"end":4}]}`))
		}))
		defer srv.Close()

		sidecar := NewSidecar(srv.URL, time.Second)
		spans, err := sidecar.Recognize(context.Background(), "Jean travaille ici", "fr")
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, Span{Text: "Jean", Label: "PER", Start: 0, End: 4}, spans[0])
	})

	t.Run("http error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		sidecar := NewSidecar(srv.URL, time.Second)
		_, err := sidecar.Recognize(context.Background(), "text", "fr")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("unreachable service surfaces", func(t *testing.T) {
		sidecar := NewSidecar("http://127.0.0.1:1", 100*time.Millisecond)
		_, err := sidecar.Recognize(context.Background(), "text", "fr")
		assert.Error(t, err)
	})
}

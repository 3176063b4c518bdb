package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestGreenAPIGatewaySendMessage(t *testing.T) {
	is := is.New(t)

	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idMessage":"ABC123"}`))
	}))
	defer srv.Close()

	g := NewGreenAPIGateway(srv.URL+"/", "1101", "tok")
	id, err := g.SendMessage(context.Background(), "972521234567", "hello")
	is.NoErr(err)
	is.Equal(id, "ABC123")
	is.Equal(gotPath, "/waInstance1101/sendMessage/tok")
	is.Equal(gotBody["chatId"], "972521234567@c.us")
	is.Equal(gotBody["message"], "hello")
}

func TestGreenAPIGatewayErrorStatus(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGreenAPIGateway(srv.URL, "1", "t").SendMessage(context.Background(), "972500000000", "hi")
	is.True(err != nil)
}

func TestGreenAPIGatewayRequiresArguments(t *testing.T) {
	is := is.New(t)
	g := NewGreenAPIGateway("http://unused", "1", "t")
	_, err := g.SendMessage(context.Background(), "", "hi")
	is.True(err != nil)
	_, err = g.SendMessage(context.Background(), "972500000000", "")
	is.True(err != nil)
}

func TestMockGatewayRecords(t *testing.T) {
	is := is.New(t)
	g := NewMockGateway("test")
	_, err := g.SendMessage(context.Background(), "972500000000", "hi")
	is.NoErr(err)
	is.Equal(g.Sent(), []SentMessage{{Phone: "972500000000", Message: "hi"}})
}

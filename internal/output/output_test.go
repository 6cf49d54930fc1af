package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyxsky/songfetch/internal/config"
)

func TestLocalWriterDeliver(t *testing.T) {
	dir := t.TempDir()
	w, err := NewLocalWriter(dir)
	if err != nil {
		t.Fatalf("NewLocalWriter: %v", err)
	}

	payload := []byte("audio bytes")
	location, err := w.Deliver(context.Background(), Item{FileName: "晴天-周杰伦.mp3", Payload: payload})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if location != filepath.Join(dir, "晴天-周杰伦.mp3") {
		t.Errorf("location = %q", location)
	}

	got, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("written payload differs from delivered payload")
	}
}

type fakeGateway struct {
	uploads map[string][]byte
	fail    bool
}

func (g *fakeGateway) Upload(_ context.Context, payload []byte, filename string) (string, error) {
	if g.fail {
		return "", errors.New("gateway down")
	}
	if g.uploads == nil {
		g.uploads = make(map[string][]byte)
	}
	g.uploads[filename] = payload
	return "fake://" + filename, nil
}

func (g *fakeGateway) Fetch(_ context.Context, url string) ([]byte, error) {
	payload, ok := g.uploads[url[len("fake://"):]]
	if !ok {
		return nil, errors.New("not found")
	}
	return payload, nil
}

func TestUploaderDeliver(t *testing.T) {
	gw := &fakeGateway{}
	u := NewUploader(gw)

	location, err := u.Deliver(context.Background(), Item{FileName: "a.mp3", Payload: []byte("x")})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if location != "fake://a.mp3" {
		t.Errorf("location = %q", location)
	}

	gw.fail = true
	if _, err := u.Deliver(context.Background(), Item{FileName: "b.mp3"}); err == nil {
		t.Error("gateway failure should surface from Deliver")
	}
}

func TestHTTPGatewayUpload(t *testing.T) {
	var gotName string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotBody, _ = io.ReadAll(file)
		json.NewEncoder(w).Encode(map[string]string{"url": "http://store/1"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL)
	location, err := gw.Upload(context.Background(), []byte("payload"), "song.mp3")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if location != "http://store/1" {
		t.Errorf("location = %q", location)
	}
	if gotName != "song.mp3" || string(gotBody) != "payload" {
		t.Errorf("server received name=%q body=%q", gotName, gotBody)
	}
}

func TestHTTPGatewayUploadBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok": true}`)
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL)
	if _, err := gw.Upload(context.Background(), []byte("x"), "song.mp3"); err == nil {
		t.Error("response without url should be an error")
	}
}

func TestForSettings(t *testing.T) {
	dir := t.TempDir()

	settings := config.DefaultSettings()
	settings.DownloadsPath = dir

	agg, err := ForSettings(settings, "run", nil)
	if err != nil {
		t.Fatalf("ForSettings local: %v", err)
	}
	if _, ok := agg.(*LocalWriter); !ok {
		t.Errorf("local mode built %T", agg)
	}

	settings.OutputMode = config.OutputArchive
	agg, err = ForSettings(settings, "run", nil)
	if err != nil {
		t.Fatalf("ForSettings archive: %v", err)
	}
	if _, ok := agg.(*Archiver); !ok {
		t.Errorf("archive mode built %T", agg)
	}

	settings.OutputMode = config.OutputUpload
	settings.UploadEndpoint = "http://store/upload"
	agg, err = ForSettings(settings, "run", nil)
	if err != nil {
		t.Fatalf("ForSettings upload: %v", err)
	}
	if _, ok := agg.(*Uploader); !ok {
		t.Errorf("upload mode built %T", agg)
	}
}

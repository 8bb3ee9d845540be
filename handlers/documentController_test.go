package handlers

import "testing"

func TestDocumentDownloadUrl(t *testing.T) {
	if got := documentDownloadUrl(42, false); got != "/api/documents/42/download" {
		t.Fatalf("unexpected download url: %s", got)
	}
	if got := documentDownloadUrl(42, true); got != "/api/documents/42/download?thumbnail=true" {
		t.Fatalf("unexpected thumbnail url: %s", got)
	}
}

package ocr

import (
	"errors"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func page(text string, confidences ...float32) *visionpb.AnnotateImageResponse {
	resp := &visionpb.AnnotateImageResponse{
		FullTextAnnotation: &visionpb.TextAnnotation{Text: text},
	}
	for _, c := range confidences {
		resp.TextAnnotations = append(resp.TextAnnotations, &visionpb.EntityAnnotation{Confidence: c})
	}
	return resp
}

func TestResultFromPages(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		got, err := resultFromPages([]*visionpb.AnnotateImageResponse{
			page("BUNNINGS WAREHOUSE\nScrews 45.00", 0.75, 0.25),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text != "BUNNINGS WAREHOUSE\nScrews 45.00" {
			t.Errorf("Text = %q", got.Text)
		}
		if got.Pages != 1 {
			t.Errorf("Pages = %d, want 1", got.Pages)
		}
		if got.Confidence != 0.5 {
			t.Errorf("Confidence = %v, want 0.5", got.Confidence)
		}
	})

	t.Run("pages joined in order", func(t *testing.T) {
		got, err := resultFromPages([]*visionpb.AnnotateImageResponse{
			page("page one"),
			page("page two"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text != "page one\n\npage two" {
			t.Errorf("Text = %q", got.Text)
		}
		if got.Pages != 2 {
			t.Errorf("Pages = %d, want 2", got.Pages)
		}
	})

	t.Run("page without annotation skipped", func(t *testing.T) {
		got, err := resultFromPages([]*visionpb.AnnotateImageResponse{
			page("docket"),
			{},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text != "docket" {
			t.Errorf("Text = %q", got.Text)
		}
	})

	t.Run("no readable text", func(t *testing.T) {
		_, err := resultFromPages([]*visionpb.AnnotateImageResponse{page("  \n ")})
		if !errors.Is(err, ErrNoText) {
			t.Errorf("error = %v, want ErrNoText", err)
		}
	})

	t.Run("too many pages", func(t *testing.T) {
		pages := make([]*visionpb.AnnotateImageResponse, MaxPagesSync+1)
		for i := range pages {
			pages[i] = page("x")
		}
		_, err := resultFromPages(pages)
		if !errors.Is(err, ErrTooManyPages) {
			t.Errorf("error = %v, want ErrTooManyPages", err)
		}
	})
}

func TestIsPDF(t *testing.T) {
	if !isPDF([]byte("%PDF-1.7 rest")) {
		t.Error("PDF header not recognised")
	}
	if isPDF([]byte{0xFF, 0xD8, 0xFF, 0xE0}) {
		t.Error("JPEG magic treated as PDF")
	}
	if isPDF([]byte("%P")) {
		t.Error("short input treated as PDF")
	}
}

package scanparam

import "testing"

func TestNew_StartsAtUpperBound(t *testing.T) {
	n := New()
	if n.Slider() != Max || n.Text() != "50" {
		t.Fatalf("got slider=%d text=%q", n.Slider(), n.Text())
	}
}

func TestSetText_FiltersNonDigits(t *testing.T) {
	n := New()
	n.SetText("1a2b3")
	if n.Text() != "123" {
		t.Fatalf("text = %q", n.Text())
	}
	n.SetText("abc")
	if n.Text() != "" {
		t.Fatalf("pure letters should leave the field empty, got %q", n.Text())
	}
}

func TestSetText_DoesNotClampMidEntry(t *testing.T) {
	n := New()
	n.SetText("999")
	if n.Text() != "999" {
		t.Fatalf("mid-entry text must not be rewritten, got %q", n.Text())
	}
	if n.Slider() != Max {
		t.Fatalf("slider should clamp to %d, got %d", Max, n.Slider())
	}
}

func TestBlur_ResolvesTheField(t *testing.T) {
	cases := []struct {
		name      string
		entry     string
		wantText  string
		wantValue int
	}{
		{"out of range high", "999", "50", 50},
		{"out of range low", "0", "1", 1},
		{"in range", "25", "25", 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := New()
			n.SetText(tc.entry)
			n.Blur()
			if n.Text() != tc.wantText || n.Slider() != tc.wantValue {
				t.Fatalf("got text=%q value=%d", n.Text(), n.Slider())
			}
		})
	}
}

func TestBlur_EmptyFallsBackToSlider(t *testing.T) {
	n := New()
	n.SetSlider(30)
	n.SetText("")
	n.Blur()
	if n.Text() != "30" || n.Slider() != 30 {
		t.Fatalf("got text=%q value=%d", n.Text(), n.Slider())
	}
}

func TestSetSlider_WritesBackToText(t *testing.T) {
	n := New()
	n.SetSlider(200)
	if n.Slider() != Max || n.Text() != "50" {
		t.Fatalf("got slider=%d text=%q", n.Slider(), n.Text())
	}
	n.SetSlider(-3)
	if n.Slider() != Min || n.Text() != "1" {
		t.Fatalf("got slider=%d text=%q", n.Slider(), n.Text())
	}
}

func TestEffective_SubmitWithEmptyFieldUsesSliderValue(t *testing.T) {
	n := New()
	n.SetSlider(12)
	n.SetText("")
	// submit without blurring the field first
	if got := n.Effective(); got != 12 {
		t.Fatalf("Effective() = %d, want 12", got)
	}
}

func TestEffective_ReclampsTextAtSubmission(t *testing.T) {
	n := New()
	n.SetText("777")
	if got := n.Effective(); got != Max {
		t.Fatalf("Effective() = %d, want %d", got, Max)
	}
	n.SetText("0")
	if got := n.Effective(); got != Min {
		t.Fatalf("Effective() = %d, want %d", got, Min)
	}
}

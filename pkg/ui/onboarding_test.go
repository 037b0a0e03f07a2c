package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"ai4edu_cli/pkg/profile"
	"ai4edu_cli/pkg/storage"
	"ai4edu_cli/pkg/ui/styles"
)

func TestNeedsOnboarding(t *testing.T) {
	kv := tempKV(t)
	if !NeedsOnboarding(kv) {
		t.Error("fresh store should need onboarding")
	}

	if err := kv.Set(storage.KeyInitialized, true); err != nil {
		t.Fatal(err)
	}
	if NeedsOnboarding(kv) {
		t.Error("initialized flag should suppress onboarding")
	}
}

func TestNeedsOnboardingExistingProfile(t *testing.T) {
	kv := tempKV(t)
	prof := profile.Default()
	prof.Name = "张老师"
	prof.School = "第一中学"
	if _, err := profile.Save(kv, prof); err != nil {
		t.Fatal(err)
	}

	if NeedsOnboarding(kv) {
		t.Error("a complete profile should suppress onboarding")
	}
}

func TestOnboardingFinishSavesProfile(t *testing.T) {
	kv := tempKV(t)
	ob := NewOnboarding(styles.Dark())
	ob.Show(kv)

	ob.Update(pressKey(tea.KeyEnter))
	for _, r := range "王老师" {
		ob.Update(pressRune(r))
	}
	ob.Update(pressKey(tea.KeyEnter))

	ob.Update(pressKey(tea.KeyDown))
	ob.Update(pressKey(tea.KeyEnter))
	for _, r := range "实验中学" {
		ob.Update(pressRune(r))
	}
	ob.Update(pressKey(tea.KeyEnter))

	msg := runCmd(ob.Update(pressRune('s')))
	if _, ok := msg.(OnboardingDoneMsg); !ok {
		t.Fatalf("msg = %T, want OnboardingDoneMsg", msg)
	}
	if ob.IsVisible() {
		t.Error("onboarding should close after finishing")
	}

	prof := profile.Load(kv)
	if prof == nil {
		t.Fatal("expected a saved profile")
	}
	if prof.Name != "王老师" || prof.School != "实验中学" {
		t.Errorf("profile = %q/%q, want 王老师/实验中学", prof.Name, prof.School)
	}
	if prof.Position != profile.Default().Position {
		t.Errorf("position = %q, want the prefilled default", prof.Position)
	}

	if NeedsOnboarding(kv) {
		t.Error("finishing must mark the app initialized")
	}
}

func TestOnboardingSkipStillInitializes(t *testing.T) {
	kv := tempKV(t)
	ob := NewOnboarding(styles.Dark())
	ob.Show(kv)

	msg := runCmd(ob.Update(pressKey(tea.KeyEscape)))
	if _, ok := msg.(OnboardingDoneMsg); !ok {
		t.Fatalf("msg = %T, want OnboardingDoneMsg", msg)
	}

	if prof := profile.Load(kv); prof != nil {
		t.Error("skipping must not save a profile")
	}
	if NeedsOnboarding(kv) {
		t.Error("skipping must still mark the app initialized")
	}
}

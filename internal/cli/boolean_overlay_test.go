package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestBooleanOverlayRecordsExplicitValues(t *testing.T) {
	t.Parallel()

	enabled, disabled := true, false
	testCases := []struct {
		name        string
		arguments   []string
		expected    *bool
		expectError bool
	}{
		{name: "absent_flag_leaves_overlay_nil", arguments: []string{}, expected: nil},
		{name: "bare_flag_means_true", arguments: []string{"--feature"}, expected: &enabled},
		{name: "equals_false", arguments: []string{"--feature=false"}, expected: &disabled},
		{name: "separate_no_literal", arguments: []string{"--feature", "no"}, expected: &disabled},
		{name: "separate_on_literal", arguments: []string{"--feature", "ON"}, expected: &enabled},
		{name: "shorthand", arguments: []string{"-x"}, expected: &enabled},
		{name: "unknown_literal_with_equals", arguments: []string{"--feature=maybe"}, expectError: true},
		{name: "non_literal_stays_positional", arguments: []string{"--feature", "maybe"}, expected: &enabled},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var overlay *bool
			command := &cobra.Command{Use: "overlay-test"}
			bindBooleanOverlay(command.Flags(), &overlay, "feature", "x", false, "toggle feature behaviour")
			parseErr := command.ParseFlags(joinBooleanLiterals(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if !reflect.DeepEqual(overlay, testCase.expected) {
				t.Fatalf("expected overlay %v, got %v", describeOverlay(testCase.expected), describeOverlay(overlay))
			}
		})
	}
}

func TestJoinBooleanLiteralsReachesSubcommandFlags(t *testing.T) {
	t.Parallel()

	var rootFlag, childFlag *bool
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{Use: "child"}
	bindBooleanOverlay(root.PersistentFlags(), &rootFlag, "recent", "r", false, "")
	bindBooleanOverlay(child.Flags(), &childFlag, "force", "", false, "")
	root.AddCommand(child)

	arguments := []string{"child", "--force", "yes", "--recent", "src", "--", "--force", "no"}
	expected := []string{"child", "--force=yes", "--recent", "src", "--", "--force", "no"}
	if joined := joinBooleanLiterals(root, arguments); !reflect.DeepEqual(joined, expected) {
		t.Fatalf("expected %v, got %v", expected, joined)
	}
}

func describeOverlay(value *bool) string {
	if value == nil {
		return "<nil>"
	}
	if *value {
		return "true"
	}
	return "false"
}

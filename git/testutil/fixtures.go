package testutil

// Test user information used across all test helpers.
const (
	// TestAuthor is the default author name for test commits.
	TestAuthor = "Test User"

	// TestEmail is the default email for test commits.
	TestEmail = "test@example.com"
)

// Test remotes.
const (
	TestRemoteName         = "origin"
	TestRemoteNameUpstream = "upstream"
	TestRepoURL            = "https://example.com/test/repo.git"
	TestRepoSSHURL         = "git@example.com:test/repo.git"
)

// Test content.
const (
	TestFilePath    = "README.md"
	TestFileContent = "# Test Repository\n\nThis is a test repository.\n"
	TestGoFilePath  = "main.go"
	TestGoContent   = "package main\n\nfunc main() {}\n"

	TestInitialCommit = "Initial commit"
	TestTagName       = "v1.0.0"
	TestTagMessage    = "Release version 1.0.0"
	TestBranchName    = "feature/test-branch"
)

package tui

// LogPaneWidthRatio exposes the list split for layout tests.
const LogPaneWidthRatio = nodeListWidthRatio

package handlers

// categoryView is re-exported for the external handlers_test package.
type CategoryView = categoryView

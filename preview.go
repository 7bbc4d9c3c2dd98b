package preface

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	previewSessionName = "preview_session"
	previewRefKey      = "ref"
)

// PreviewRef returns the preview token for the active preview session, or ""
// when browsing published content. Every content fetch forwards this as the
// query ref override so unpublished draft revisions come back instead of
// the published ones.
func PreviewRef(c echo.Context) string {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return ""
	}
	ref, _ := sess.Values[previewRefKey].(string)
	return ref
}

// SetPreviewRef writes {ref: token} into the hosting session, activating
// preview mode for subsequent requests. Expiry is the session store's
// business, not enforced here.
func SetPreviewRef(c echo.Context, token string) error {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[previewRefKey] = token
	return sess.Save(c.Request(), c.Response())
}

// ClearPreviewRef ends the preview session.
func ClearPreviewRef(c echo.Context) error {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, previewRefKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

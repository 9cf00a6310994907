// Package fullnames holds the fully qualified names of ORM classes the
// analysis keys on.
package fullnames

const (
	BaseManager     = "django.db.models.manager.BaseManager"
	Manager         = "django.db.models.manager.Manager"
	QuerySet        = "django.db.models.query.QuerySet"
	Model           = "django.db.models.base.Model"
	GeneratedModule = "django.db.models.manager"

	HttpRequest      = "django.http.request.HttpRequest"
	AbstractBaseUser = "django.contrib.auth.base_user.AbstractBaseUser"
	AnonymousUser    = "django.contrib.auth.models.AnonymousUser"

	Builtins = "builtins"
	Str      = "builtins.str"
)

// Names is the configurable set of ORM anchors.
type Names struct {
	BaseManager     string
	Manager         string
	QuerySet        string
	Model           string
	GeneratedModule string
	HttpRequest     string
}

// Default returns the anchors of the stock ORM layout.
func Default() Names {
	return Names{
		BaseManager:     BaseManager,
		Manager:         Manager,
		QuerySet:        QuerySet,
		Model:           Model,
		GeneratedModule: GeneratedModule,
		HttpRequest:     HttpRequest,
	}
}

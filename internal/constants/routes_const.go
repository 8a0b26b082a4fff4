package constants

// Base Routes
const (
	VersionPath = "/version"
)

// Authentication Routes
const (
	AuthBasePath           = "/auth"
	AuthRegisterPath       = "/api/auth/register"
	AuthLoginPath          = "/auth/login"
	AuthLogoutPath         = "/auth/logout"
	AuthDashboardPath      = "/auth/dashboard"
	AuthForgotPasswordPath = "/auth/forgot-password"
	AuthResetPasswordPath  = "/auth/reset-password"
)

// User Routes
const (
	UsersBasePath          = "/api/users"
	UserProfilePath        = "/api/users/me"
	UserChangePasswordPath = "/api/users/me/change-password"
)

// Catalog Routes
const (
	BooksBasePath      = "/api/books"
	BookDetailPath     = "/api/books/{bookID}"
	BookCoverPath      = "/api/books/{bookID}/cover"
	AuthorsBasePath    = "/api/authors"
	AuthorDetailPath   = "/api/authors/{authorID}"
	CategoriesBasePath = "/api/categories"
	CategoryDetailPath = "/api/categories/{categoryID}"
)

// Static asset routes
const (
	CoversBasePath = "/covers"
)

package upstream

// Resource paths of the accounting backend.
const (
	PathToken                = "/auth/token/"
	PathTokenRefresh         = "/auth/token/refresh/"
	PathLogout               = "/auth/logout/"
	PathUsers                = "/auth/users/"
	PathActivation           = "/auth/users/activation/"
	PathResetPassword        = "/auth/users/reset_password/"
	PathResetPasswordConfirm = "/auth/users/reset_password_confirm/"
	PathSetPassword          = "/auth/users/set_password/"

	PathJournals        = "/compta/journals/"
	PathMoves           = "/compta/moves/"
	PathTaxes           = "/compta/taxes/"
	PathTaxTypes        = "/compta/tax-types/"
	PathFiscalPositions = "/compta/fiscal-positions/"
	PathAccounts        = "/compta/accounts/"

	PathCompanies  = "/entites/"
	PathPartners   = "/core/partenaires/"
	PathBanks      = "/core/banques/"
	PathCurrencies = "/core/devises/"
	PathCountries  = "/pays/"
)

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// RemoteConfig configures RemoteGateway.
type RemoteConfig struct {
	// Endpoint is the base URL, e.g. https://identitytoolkit.googleapis.com.
	Endpoint string
	APIKey   string
	// JWKSURL, when set, enables signature checks on returned ID tokens.
	JWKSURL string
	Timeout time.Duration
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
}

// RemoteGateway is a Gateway backed by an Identity Toolkit compatible REST
// service.
type RemoteGateway struct {
	cfg  RemoteConfig
	http *http.Client
	jwks keyfunc.Keyfunc
	log  logging.Logger
}

// NewRemoteGateway builds a gateway. When cfg.JWKSURL is set the key set is
// fetched in the background and refreshed hourly for as long as ctx lives.
func NewRemoteGateway(ctx context.Context, cfg RemoteConfig, log logging.Logger) (*RemoteGateway, error) {
	g := newRemote(cfg, log)
	if cfg.JWKSURL == "" {
		return g, nil
	}

	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    g.http,
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           time.Hour,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			g.log.Error(ctx, "failed to refresh JWKS", "url", cfg.JWKSURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyfunc: %w", err)
	}
	g.jwks = k
	return g, nil
}

// NewRemoteGatewayWithKeyfunc builds a gateway that verifies ID tokens with
// kf.
func NewRemoteGatewayWithKeyfunc(cfg RemoteConfig, kf keyfunc.Keyfunc, log logging.Logger) *RemoteGateway {
	g := newRemote(cfg, log)
	g.jwks = kf
	return g
}

func newRemote(cfg RemoteConfig, log logging.Logger) *RemoteGateway {
	if log == nil {
		log = logging.Nop()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &RemoteGateway{
		cfg:  cfg,
		http: client,
		log:  log.With("component", "identity", "provider", "remote"),
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type tokenResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	LocalID      string `json:"localId"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (g *RemoteGateway) SignUp(ctx context.Context, email string, password []byte, role models.Role) (*ProviderIdentity, error) {
	id, err := g.authenticate(ctx, "sign up", "accounts:signUp", email, password)
	if err != nil {
		return nil, err
	}
	// the provider has no notion of roles at registration time
	if id.Role == "" {
		id.Role = role
	}
	return id, nil
}

func (g *RemoteGateway) SignIn(ctx context.Context, email string, password []byte) (*ProviderIdentity, error) {
	return g.authenticate(ctx, "sign in", "accounts:signInWithPassword", email, password)
}

// SignOut is a no-op: the REST protocol has no server-side sign out and the
// gateway keeps no tokens once the identity is established.
func (g *RemoteGateway) SignOut(_ context.Context) error {
	return nil
}

func (g *RemoteGateway) authenticate(ctx context.Context, op, method, email string, password []byte) (*ProviderIdentity, error) {
	body, err := json.Marshal(credentialsRequest{Email: email, Password: string(password), ReturnSecureToken: true})
	if err != nil {
		return nil, authError(op, "", fmt.Errorf("%w: %v", ErrRejected, err))
	}

	endpoint := fmt.Sprintf("%s/v1/%s?key=%s", strings.TrimRight(g.cfg.Endpoint, "/"), method, url.QueryEscape(g.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, authError(op, "", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn(ctx, "identity provider request failed", "op", op, "error", err)
		return nil, authError(op, "identity provider is unreachable", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, authError(op, "identity provider is unreachable", fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, g.providerError(ctx, op, resp.StatusCode, raw)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil || tr.LocalID == "" {
		return nil, authError(op, "identity provider returned an unreadable response", ErrRejected)
	}

	claims, err := g.parseIDToken(ctx, tr.IDToken)
	if err != nil {
		g.log.Warn(ctx, "rejected ID token", "op", op, "error", err)
		return nil, authError(op, "identity provider returned an invalid token", fmt.Errorf("%w: %v", ErrRejected, err))
	}
	if claims.Subject != tr.LocalID {
		return nil, authError(op, "identity provider returned a token for another subject", ErrRejected)
	}

	id := &ProviderIdentity{SubjectID: tr.LocalID, Email: tr.Email}
	if id.Email == "" {
		id.Email = email
	}
	if r, err := models.ParseRole(claims.Role); err == nil {
		id.Role = r
	}
	return id, nil
}

func (g *RemoteGateway) parseIDToken(ctx context.Context, token string) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	if g.jwks == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(token, claims, g.jwks.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// providerError maps an Identity Toolkit error body onto a sentinel. The
// provider's message code, e.g. EMAIL_EXISTS, becomes the user-facing text.
func (g *RemoteGateway) providerError(ctx context.Context, op string, status int, raw []byte) error {
	var er errorResponse
	_ = json.Unmarshal(raw, &er)
	msg := er.Error.Message

	g.log.Info(ctx, "identity provider refused request", "op", op, "status", status, "message", msg)

	if status >= http.StatusInternalServerError {
		if msg == "" {
			msg = http.StatusText(status)
		}
		return authError(op, msg, ErrUnavailable)
	}
	if msg == "" {
		return authError(op, http.StatusText(status), ErrRejected)
	}

	code := msg
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_EXISTS":
		return authError(op, msg, ErrEmailExists)
	case "WEAK_PASSWORD":
		return authError(op, msg, ErrWeakPassword)
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return authError(op, msg, ErrInvalidCredentials)
	default:
		return authError(op, msg, ErrRejected)
	}
}

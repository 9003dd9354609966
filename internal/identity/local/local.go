// Package local implementa identity.Provider con usuarios propios:
// password hash bcrypt en el table store, access tokens JWT HS256 y
// registro de sesión en el cache (memory o redis).
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nusarupa/nusarupa/internal/cache"
	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/identity"
	"github.com/nusarupa/nusarupa/internal/metrics"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

const (
	sessionKeyPrefix  = "session:"
	currentSessionKey = "session:current"
	bcryptCost        = bcrypt.DefaultCost
)

// Config del provider local.
type Config struct {
	// Secret firma los JWT. Obligatorio.
	Secret string
	// Issuer del token.
	Issuer string
	// SessionTTL de los tokens y del registro de sesión en cache.
	SessionTTL time.Duration
}

type Provider struct {
	store tablestore.Store
	cache cache.Client
	cfg   Config

	mu        sync.Mutex
	token     string // token de la sesión vigente de este proceso
	listeners map[int]func(*domain.Session)
	nextID    int
}

func New(store tablestore.Store, c cache.Client, cfg Config) (*Provider, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("identity/local: secret vacío")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "nusarupa"
	}
	return &Provider{
		store:     store,
		cache:     c,
		cfg:       cfg,
		listeners: make(map[int]func(*domain.Session)),
	}, nil
}

// sessionRecord es lo que persiste en cache por token.
type sessionRecord struct {
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ---------- contrato identity.Provider ----------

func (p *Provider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == "" {
		// Sesión persistida de un arranque anterior (equivalente al
		// storage local del provider hosteado).
		stored, err := p.cache.Get(ctx, currentSessionKey)
		if err != nil {
			if cache.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		token = stored
		p.mu.Lock()
		p.token = token
		p.mu.Unlock()
	}

	sess, err := p.lookup(ctx, token)
	if err != nil {
		if cache.IsNotFound(err) || errors.Is(err, identity.ErrNoSession) {
			// Token vencido o revocado: sesión none, no error.
			p.clearLocal(ctx)
			metrics.SessionEvents.WithLabelValues("expired").Inc()
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, token, err := p.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := p.adopt(ctx, token, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Authenticate valida credenciales y emite un access token SIN tocar la
// sesión del proceso. La capa HTTP lo usa directo: cada request porta su
// propio token.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (*domain.Session, string, error) {
	log := logger.From(ctx).With(
		logger.Layer("provider"),
		logger.Component("identity.local"),
		logger.Op("Authenticate"),
	)
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", identity.ErrInvalidCredentials
	}

	rec, err := p.store.SelectOne(ctx, domain.CollectionUsers, tablestore.Eq("email", email))
	if err != nil {
		if tablestore.IsNotFound(err) {
			log.Debug("user not found", logger.Email(maskEmail(email)))
			return nil, "", identity.ErrInvalidCredentials
		}
		return nil, "", err
	}

	hash, _ := rec["password_hash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		log.Debug("password check failed", logger.Email(maskEmail(email)))
		return nil, "", identity.ErrInvalidCredentials
	}

	sess := sessionFromUser(rec)
	token, err := p.issueToken(sess)
	if err != nil {
		return nil, "", err
	}
	if err := p.persistToken(ctx, token, sess); err != nil {
		return nil, "", err
	}
	metrics.SessionEvents.WithLabelValues("sign_in").Inc()
	log.Info("signed in", logger.UserID(sess.IdentityID))
	return sess, token, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*domain.Session, error) {
	sess, token, err := p.Register(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}
	if err := p.adopt(ctx, token, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Register crea el usuario y emite un access token sin tocar la sesión del
// proceso. Contraparte stateless de SignUp para la capa HTTP.
func (p *Provider) Register(ctx context.Context, email, password, displayName string) (*domain.Session, string, error) {
	log := logger.From(ctx).With(
		logger.Layer("provider"),
		logger.Component("identity.local"),
		logger.Op("Register"),
	)
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", identity.ErrInvalidCredentials
	}

	if _, err := p.store.SelectOne(ctx, domain.CollectionUsers, tablestore.Eq("email", email)); err == nil {
		return nil, "", identity.ErrEmailTaken
	} else if !tablestore.IsNotFound(err) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	metadata := map[string]any{"display_name": displayName}
	metaJSON, _ := json.Marshal(metadata)
	userRec, err := p.store.Insert(ctx, domain.CollectionUsers, tablestore.Record{
		"id":            uuid.NewString(),
		"email":         email,
		"password_hash": string(hash),
		"display_name":  displayName,
		"metadata":      string(metaJSON),
	})
	if err != nil {
		if errors.Is(err, tablestore.ErrConflict) {
			return nil, "", identity.ErrEmailTaken
		}
		return nil, "", err
	}

	userID, _ := userRec["id"].(string)

	// Perfil inicial; el registro del usuario ya existe aunque esto falle.
	if _, err := p.store.Insert(ctx, domain.CollectionProfiles, tablestore.Record{
		"user_id":   userID,
		"full_name": displayName,
		"role":      domain.RoleUser,
	}); err != nil {
		log.Warn("profile creation failed", logger.UserID(userID), logger.Err(err))
	}

	sess := &domain.Session{IdentityID: userID, Email: email, Metadata: metadata}
	token, err := p.issueToken(sess)
	if err != nil {
		return nil, "", err
	}
	if err := p.persistToken(ctx, token, sess); err != nil {
		return nil, "", err
	}
	metrics.SessionEvents.WithLabelValues("sign_up").Inc()
	log.Info("signed up", logger.UserID(userID))
	return sess, token, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	p.clearLocal(ctx)
	p.emit(nil)
	metrics.SessionEvents.WithLabelValues("sign_out").Inc()

	if token != "" {
		if err := p.cache.Delete(ctx, sessionKeyPrefix+tokenID(token)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) UpdateCurrentUser(ctx context.Context, patch map[string]any) error {
	sess, err := p.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return identity.ErrNoSession
	}

	merged := make(map[string]any, len(sess.Metadata)+len(patch))
	for k, v := range sess.Metadata {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	metaJSON, _ := json.Marshal(merged)

	update := tablestore.Record{"metadata": string(metaJSON)}
	if name, ok := merged["display_name"].(string); ok {
		update["display_name"] = name
	}
	if _, err := p.store.Update(ctx, domain.CollectionUsers, sess.IdentityID, update); err != nil {
		return err
	}
	p.syncProfile(ctx, sess.IdentityID, merged)

	sess.Metadata = merged
	if err := p.persist(ctx, sess); err != nil {
		return err
	}
	p.emit(sess)
	return nil
}

// UpdateUserMetadata aplica un patch al metadata del usuario indicado y
// devuelve la vista de sesión resultante. Contraparte stateless de
// UpdateCurrentUser para la capa HTTP; los registros de sesión ya emitidos
// se refrescan en el próximo login.
func (p *Provider) UpdateUserMetadata(ctx context.Context, userID string, patch map[string]any) (*domain.Session, error) {
	rec, err := p.store.SelectOne(ctx, domain.CollectionUsers, tablestore.Eq("id", userID))
	if err != nil {
		if tablestore.IsNotFound(err) {
			return nil, identity.ErrNoSession
		}
		return nil, err
	}
	sess := sessionFromUser(rec)

	merged := make(map[string]any, len(sess.Metadata)+len(patch))
	for k, v := range sess.Metadata {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	metaJSON, _ := json.Marshal(merged)

	update := tablestore.Record{"metadata": string(metaJSON)}
	if name, ok := merged["display_name"].(string); ok {
		update["display_name"] = name
	}
	if _, err := p.store.Update(ctx, domain.CollectionUsers, userID, update); err != nil {
		return nil, err
	}
	p.syncProfile(ctx, userID, merged)

	sess.Metadata = merged
	return sess, nil
}

// syncProfile refleja los campos de perfil del metadata en "profiles".
// Best effort: el usuario ya quedó actualizado aunque esto falle.
func (p *Provider) syncProfile(ctx context.Context, userID string, metadata map[string]any) {
	patch := tablestore.Record{}
	if name, ok := metadata["display_name"].(string); ok && name != "" {
		patch["full_name"] = name
	}
	if bio, ok := metadata["bio"].(string); ok {
		patch["bio"] = bio
	}
	if avatar, ok := metadata["avatar_url"].(string); ok {
		patch["avatar_url"] = avatar
	}
	if len(patch) == 0 {
		return
	}

	rec, err := p.store.SelectOne(ctx, domain.CollectionProfiles, tablestore.Eq("user_id", userID))
	if err != nil {
		if !tablestore.IsNotFound(err) {
			logger.From(ctx).Warn("profile lookup failed", logger.UserID(userID), logger.Err(err))
		}
		return
	}
	id, _ := rec["id"].(string)
	if _, err := p.store.Update(ctx, domain.CollectionProfiles, id, patch); err != nil {
		logger.From(ctx).Warn("profile sync failed", logger.UserID(userID), logger.Err(err))
	}
}

func (p *Provider) OnSessionChange(fn func(*domain.Session)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// SessionFromToken resuelve la sesión que porta un access token. Respeta
// revocación: el registro de sesión debe seguir vivo en cache.
func (p *Provider) SessionFromToken(ctx context.Context, token string) (*domain.Session, error) {
	return p.lookup(ctx, token)
}

// Revoke invalida un access token borrando su registro de sesión.
func (p *Provider) Revoke(ctx context.Context, token string) error {
	if err := p.cache.Delete(ctx, sessionKeyPrefix+tokenID(token)); err != nil && !cache.IsNotFound(err) {
		return err
	}
	metrics.SessionEvents.WithLabelValues("sign_out").Inc()
	return nil
}

// ---------- verificación de tokens (middleware HTTP) ----------

func (p *Provider) VerifyToken(token string) (userID, email string, err error) {
	claims := jwtv5.MapClaims{}
	parsed, err := jwtv5.ParseWithClaims(token, claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(p.cfg.Secret), nil
	}, jwtv5.WithIssuer(p.cfg.Issuer), jwtv5.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", "", identity.ErrNoSession
	}
	sub, _ := claims["sub"].(string)
	em, _ := claims["email"].(string)
	if sub == "" {
		return "", "", identity.ErrNoSession
	}
	return sub, em, nil
}

// ---------- internos ----------

// issueToken firma el JWT de acceso para la sesión.
func (p *Provider) issueToken(sess *domain.Session) (string, error) {
	now := time.Now()
	claims := jwtv5.MapClaims{
		"iss":   p.cfg.Issuer,
		"sub":   sess.IdentityID,
		"email": sess.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(p.cfg.SessionTTL).Unix(),
		"jti":   uuid.NewString(),
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
}

// persistToken guarda el registro de sesión en cache bajo el jti del token.
func (p *Provider) persistToken(ctx context.Context, token string, sess *domain.Session) error {
	b, err := json.Marshal(sessionRecord{
		UserID:   sess.IdentityID,
		Email:    sess.Email,
		Metadata: sess.Metadata,
	})
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, sessionKeyPrefix+tokenID(token), string(b), p.cfg.SessionTTL)
}

// adopt convierte el token en la sesión vigente del proceso y notifica
// listeners. Equivale a "guardar la sesión en storage local".
func (p *Provider) adopt(ctx context.Context, token string, sess *domain.Session) error {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	if err := p.cache.Set(ctx, currentSessionKey, token, p.cfg.SessionTTL); err != nil {
		return err
	}
	p.emit(sess)
	return nil
}

func (p *Provider) persist(ctx context.Context, sess *domain.Session) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token == "" {
		return identity.ErrNoSession
	}
	return p.persistToken(ctx, token, sess)
}

func (p *Provider) lookup(ctx context.Context, token string) (*domain.Session, error) {
	if _, _, err := p.VerifyToken(token); err != nil {
		return nil, err
	}
	raw, err := p.cache.Get(ctx, sessionKeyPrefix+tokenID(token))
	if err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &domain.Session{IdentityID: rec.UserID, Email: rec.Email, Metadata: rec.Metadata}, nil
}

func (p *Provider) clearLocal(ctx context.Context) {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
	_ = p.cache.Delete(ctx, currentSessionKey)
}

func (p *Provider) emit(sess *domain.Session) {
	p.mu.Lock()
	fns := make([]func(*domain.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}

// tokenID reduce el token a su jti para no usar el JWT entero como key.
func tokenID(token string) string {
	claims := jwtv5.MapClaims{}
	// Sin verificar: solo extraemos el jti para armar la key de cache.
	parser := jwtv5.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" {
			return jti
		}
	}
	return token
}

func sessionFromUser(rec tablestore.Record) *domain.Session {
	id, _ := rec["id"].(string)
	email, _ := rec["email"].(string)
	var metadata map[string]any
	switch m := rec["metadata"].(type) {
	case map[string]any:
		metadata = m
	case string:
		_ = json.Unmarshal([]byte(m), &metadata)
	}
	return &domain.Session{IdentityID: id, Email: email, Metadata: metadata}
}

var (
	_ identity.Provider      = (*Provider)(nil)
	_ identity.TokenVerifier = (*Provider)(nil)
)

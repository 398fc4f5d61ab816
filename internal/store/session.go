package store

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf16"

	"mini-storefront/internal/model"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// Login simulates a remote sign-in. It waits for the configured delay without
// holding any store lock, then signs the user in when email is non-empty and
// password is at least six UTF-16 code units long, so a character outside
// the Basic Multilingual Plane counts twice.
//
// A pending attempt is superseded by a newer Login, by Logout, SetUser or
// CancelLogin, and by cancellation of ctx. A superseded attempt returns false
// and leaves the state untouched.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.loginMu.Lock()
	if s.cancelLogin != nil {
		s.cancelLogin()
	}
	s.loginSeq++
	seq := s.loginSeq
	s.cancelLogin = cancel
	s.loginMu.Unlock()

	defer func() {
		s.loginMu.Lock()
		if s.loginSeq == seq {
			s.cancelLogin = nil
		}
		s.loginMu.Unlock()
	}()

	if !sleepContext(attemptCtx, s.config.LoginDelay) {
		s.config.Metrics.IncLogin("cancelled")
		s.logger.Info().Msg("login attempt superseded")
		return false
	}

	if email == "" || passwordLength(password) < minPasswordLength {
		s.config.Metrics.IncLogin("rejected")
		s.logger.Info().Msg("login rejected")
		return false
	}

	user := s.newUser(email)
	_, applied := s.mutateIf("login", func(st *State) bool {
		if !s.loginCurrent(seq) || attemptCtx.Err() != nil {
			return false
		}
		st.User = &user
		return true
	})
	if !applied {
		s.config.Metrics.IncLogin("cancelled")
		s.logger.Info().Msg("login attempt superseded")
		return false
	}

	s.config.Metrics.IncLogin("success")
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return true
}

// CancelLogin abandons any pending Login.
func (s *Store) CancelLogin() {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	if s.cancelLogin != nil {
		s.cancelLogin()
		s.cancelLogin = nil
	}
	s.loginSeq++
}

// Logout clears the session user and cancels any pending Login.
func (s *Store) Logout() {
	s.CancelLogin()
	s.mutate("logout", func(st *State) {
		st.User = nil
	})
	s.logger.Info().Msg("user logged out")
}

// SetUser replaces the session user. A nil user signs out.
func (s *Store) SetUser(user *model.User) {
	s.CancelLogin()
	s.mutate("set_user", func(st *State) {
		if user == nil {
			st.User = nil
			return
		}
		u := *user
		st.User = &u
	})
}

// User returns the signed-in user, or nil.
func (s *Store) User() *model.User {
	return s.State().User
}

// ToggleDarkMode flips dark mode and returns the theme now in effect.
func (s *Store) ToggleDarkMode() Theme {
	return s.mutate("toggle_dark_mode", func(st *State) {
		st.IsDarkMode = !st.IsDarkMode
	}).Theme()
}

// Theme returns the theme currently in effect.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Theme()
}

func (s *Store) loginCurrent(seq uint64) bool {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()
	return s.loginSeq == seq
}

func (s *Store) newUser(email string) model.User {
	name, _, _ := strings.Cut(email, "@")
	return model.User{
		ID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Name:   name,
		Email:  email,
		Avatar: s.config.AvatarBaseURL + "?seed=" + url.QueryEscape(email),
	}
}

// sleepContext waits for d and reports whether it elapsed before ctx was done.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// LoginAsync starts Login in the background and returns a channel that
// receives its result once. Cancel ctx, or call CancelLogin, to abandon it.
func (s *Store) LoginAsync(ctx context.Context, email, password string) <-chan bool {
	result := make(chan bool, 1)
	go func() {
		result <- s.Login(ctx, email, password)
	}()
	return result
}

// passwordLength counts UTF-16 code units, the unit browsers measure
// password fields in.
func passwordLength(password string) int {
	n := 0
	for _, r := range password {
		n += utf16.RuneLen(r)
	}
	return n
}

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tesoura/internal/apiclient"
	"tesoura/internal/bookingcache"
	"tesoura/internal/listing"
	"tesoura/internal/model"
	"tesoura/internal/session"
	"tesoura/internal/shopadmin"
)

// fetchShopsPageCmd runs the request for a page claimed with Start. The
// result is applied by the update loop through Finish.
func fetchShopsPageCmd(l *listing.Synchronizer, c listing.Claim) tea.Cmd {
	return func() tea.Msg {
		records, err := l.Fetch(context.Background(), c.Page)
		return model.ShopsPageMsg{Page: c.Page, Gen: c.Gen, Records: records, Err: err}
	}
}

func loadBookingsCmd(svc *bookingcache.Service, userID string) tea.Cmd {
	return func() tea.Msg {
		views, fromCache := svc.Load(context.Background(), userID)
		return model.BookingsLoadedMsg{Bookings: views, FromCache: fromCache}
	}
}

func loadOwnedShopsCmd(svc *shopadmin.Service, ownerID string) tea.Cmd {
	return func() tea.Msg {
		shops, err := svc.ListOwned(context.Background(), ownerID)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.OwnedShopsLoadedMsg{Shops: shops}
	}
}

func deleteShopCmd(svc *shopadmin.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), id); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ShopDeletedMsg{ID: id}
	}
}

// logoutCmd drops the session and, with it, the cached bookings. The
// in-memory session is gone even when the local store fails, so the views are
// reset either way.
func logoutCmd(sessions *session.Manager, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := sessions.Logout(); err != nil {
			log.Error("failed to clear local session data", zap.Error(err))
		}
		return model.LoggedOutMsg{}
	}
}

// avatarCmd downloads the session photo and renders it as text. A failure
// only costs the avatar.
func avatarCmd(api *apiclient.Client, ref string, caps TerminalCapabilities, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		img, err := api.FetchPhoto(context.Background(), ref)
		if err != nil {
			log.Warn("failed to load avatar", zap.String("ref", ref), zap.Error(err))
			return model.AvatarLoadedMsg{}
		}
		return model.AvatarLoadedMsg{Art: RenderAvatar(img, caps, avatarWidth, avatarHeight)}
	}
}

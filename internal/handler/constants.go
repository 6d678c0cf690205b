// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit forms.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete posts. HTML forms can't send DELETE.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	RouteLogin             = "/login"
	RouteLogout            = "/logout"
	RouteRegisterVisitor   = "/register/visitor"
	RouteRegisterOrganizer = "/register/organizer"
	RouteProfile           = "/profile"

	RouteEvents         = "/events"
	RouteEventID        = RouteEvents + RouteParamID
	RouteEventSlug      = RouteEventID + "/{slug}"
	RouteEventSubscribe = RouteEventID + "/subscribe"
	RouteEventComments  = RouteEventID + "/comments"
	RouteEventLike      = RouteEventID + "/like"

	RouteCommentID     = "/comments" + RouteParamID
	RouteCommentEdit   = RouteCommentID + RouteSuffixEdit
	RouteCommentDelete = RouteCommentID + RouteSuffixDelete

	RoutePaymentID       = "/payment/{id}"
	RouteMySubscriptions = "/my-subscriptions"
	RouteTicketQR        = "/tickets/{code}/qr.png"

	RouteOrganizer = "/organizer"
	RouteAdmin     = "/admin"
)

// Organizer area routes, relative to RouteOrganizer.
const (
	routeOrgEvents      = "/events"
	routeOrgEventID     = routeOrgEvents + RouteParamID
	routeOrgCategories  = routeOrgEventID + "/categories"
	routeOrgCategoryID  = routeOrgCategories + "/{categoryId}"
	routeOrgImages      = routeOrgEventID + "/images"
	routeOrgImageID     = routeOrgImages + "/{imageId}"
	routeOrgStats       = routeOrgEventID + "/stats"
	routeOrgSubscribers = routeOrgEventID + "/subscribers"
	routeOrgMembers     = "/members"
	routeOrgMemberID    = routeOrgMembers + RouteParamID
	routeOrgScanner     = "/scanner"
)

// Admin area routes, relative to RouteAdmin.
const (
	routeAdminUsers      = "/users"
	routeAdminUserID     = routeAdminUsers + RouteParamID
	routeAdminEvents     = "/events"
	routeAdminEventID    = routeAdminEvents + RouteParamID
	routeAdminComments   = "/comments"
	routeAdminCommentID  = routeAdminComments + RouteParamID
	routeAdminCacheWarm  = "/cache/warm"
	routeAdminCacheClear = "/cache/clear"
	routeAdminHealth     = "/health"

	routeSuffixRole     = "/role"
	routeSuffixStatus   = "/status"
	routeSuffixFeatured = "/featured"
)

const (
	redirectLogin           = RouteLogin
	redirectOrganizer       = RouteOrganizer
	redirectOrgEvents       = RouteOrganizer + routeOrgEvents
	redirectOrgEventID      = redirectOrgEvents + "/%d"
	redirectOrgEventEdit    = redirectOrgEventID + RouteSuffixEdit
	redirectOrgMembers      = RouteOrganizer + routeOrgMembers
	redirectAdmin           = RouteAdmin
	redirectAdminUsers      = RouteAdmin + routeAdminUsers
	redirectAdminEvents     = RouteAdmin + routeAdminEvents
	redirectAdminComments   = RouteAdmin + routeAdminComments
	redirectPayment         = "/payment/%d?amount=%d"
	redirectMySubscriptions = RouteMySubscriptions
)

// Page template names.
const (
	pageHome          = "pages/home"
	pageEvent         = "pages/event"
	pageDenied        = "pages/denied"
	pageLoading       = "pages/loading"
	pageError         = "pages/error"
	pageLogin         = "auth/login"
	pageRegister      = "auth/register"
	pageProfile       = "account/profile"
	pageSubscriptions = "visitor/subscriptions"
	pagePayment       = "visitor/payment"
	pageOrgDashboard  = "organizer/dashboard"
	pageOrgEvents     = "organizer/events"
	pageOrgEventForm  = "organizer/event_form"
	pageOrgStats      = "organizer/stats"
	pageOrgSubs       = "organizer/subscribers"
	pageOrgMembers    = "organizer/members"
	pageOrgScanner    = "organizer/scanner"
	pageAdminDash     = "admin/dashboard"
	pageAdminUsers    = "admin/users"
	pageAdminEvents   = "admin/events"
	pageAdminComments = "admin/comments"
)

// Flash types understood by the templates.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)

// WarmJobName is the scheduler job that refreshes the cached listings.
const WarmJobName = "warm-listings"

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"

package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/constants"
	"github.com/Cyberod/Taskify-Backend/models"
)

func newInviteService(db *gorm.DB, clock Clock, notifier Notifier) *InviteService {
	return &InviteService{
		DB:       db,
		Notifier: notifier,
		Clock:    clock,
		TTL:      3 * 24 * time.Hour,
		Logger:   testLogger(),
	}
}

func TestInviteRoundTrip(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	notifier := &stubNotifier{}
	svc := newInviteService(db, clock, notifier)

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	invitee := seedUser(t, db, "a@x.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, sent, err := svc.Create(project.ID, "a@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if !sent || len(notifier.Invites) != 1 {
		t.Fatalf("expected one invite email, sent=%v n=%d", sent, len(notifier.Invites))
	}
	if invite.Status != constants.InviteStatusPending {
		t.Fatalf("new invite status = %s", invite.Status)
	}
	if got, want := invite.ExpiresAt, clock.T.Add(3*24*time.Hour); !got.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", got, want)
	}

	summary, err := svc.Accept(invite.Token, invitee)
	if err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	if summary.Role != constants.ProjectRoleMember {
		t.Fatalf("joined role = %s, want MEMBER", summary.Role)
	}

	var members []models.ProjectMember
	if err := db.Where("project_id = ?", project.ID).Find(&members).Error; err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != invitee.ID {
		t.Fatalf("expected exactly one membership for invitee, got %+v", members)
	}

	var stored models.ProjectInvite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatalf("reload invite: %v", err)
	}
	if stored.Status != constants.InviteStatusAccepted {
		t.Fatalf("invite status = %s, want ACCEPTED", stored.Status)
	}

	// The token is single use.
	_, err = svc.Accept(invite.Token, invitee)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("second accept: expected conflict, got %s", kind)
	}
}

func TestInviteExpiry_LazyAndIdempotent(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	invitee := seedUser(t, db, "late@x.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, _, err := svc.Create(project.ID, "late@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	clock.T = clock.T.Add(4 * 24 * time.Hour)

	for i := 0; i < 2; i++ {
		_, err = svc.Accept(invite.Token, invitee)
		if kind := kindOf(t, err); kind != KindExpired {
			t.Fatalf("attempt %d: expected expired, got %s", i, kind)
		}

		var stored models.ProjectInvite
		if err := db.First(&stored, invite.ID).Error; err != nil {
			t.Fatalf("reload invite: %v", err)
		}
		if stored.Status != constants.InviteStatusExpired {
			t.Fatalf("attempt %d: status = %s, want EXPIRED", i, stored.Status)
		}
	}
}

func TestCreateInvite_Rejections(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	member := seedUser(t, db, "member@example.com", constants.UserRoleMember)
	plainMember := seedUser(t, db, "plain@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)
	seedMember(t, db, project.ID, member.ID, constants.ProjectRoleMember)
	seedMember(t, db, project.ID, plainMember.ID, constants.ProjectRoleMember)

	// The owner already has access.
	_, _, err := svc.Create(project.ID, "owner@example.com", owner.ID)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("inviting owner: expected conflict, got %s", kind)
	}

	// So does an existing member, case-insensitively.
	_, _, err = svc.Create(project.ID, "MEMBER@example.com", owner.ID)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("inviting member: expected conflict, got %s", kind)
	}

	// At most one pending invite per (project, email).
	if _, _, err := svc.Create(project.ID, "new@x.com", owner.ID); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	_, _, err = svc.Create(project.ID, "new@x.com", owner.ID)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("duplicate invite: expected conflict, got %s", kind)
	}

	// Plain members lack INVITE_USERS.
	_, _, err = svc.Create(project.ID, "another@x.com", plainMember.ID)
	if kind := kindOf(t, err); kind != KindPermissionDenied {
		t.Fatalf("member inviting: expected permission denied, got %s", kind)
	}
}

func TestAcceptInvite_EmailMismatch(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	wrong := seedUser(t, db, "wrong@x.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, _, err := svc.Create(project.ID, "intended@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	_, err = svc.Accept(invite.Token, wrong)
	if kind := kindOf(t, err); kind != KindPermissionDenied {
		t.Fatalf("expected permission denied, got %s", kind)
	}
}

func TestAcceptInvite_AlreadyMemberConsumesToken(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	invitee := seedUser(t, db, "dup@x.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, _, err := svc.Create(project.ID, "dup@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	// The user joins through some other path before accepting.
	seedMember(t, db, project.ID, invitee.ID, constants.ProjectRoleMember)

	_, err = svc.Accept(invite.Token, invitee)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("expected conflict, got %s", kind)
	}

	var stored models.ProjectInvite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatalf("reload invite: %v", err)
	}
	if stored.Status != constants.InviteStatusAccepted {
		t.Fatalf("invite should be consumed, status = %s", stored.Status)
	}
}

func TestDeclineInvite(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, _, err := svc.Create(project.ID, "decliner@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	declined, err := svc.Decline(invite.Token)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != constants.InviteStatusRejected {
		t.Fatalf("status = %s, want REJECTED", declined.Status)
	}

	// Terminal statuses are immutable.
	_, err = svc.Decline(invite.Token)
	if kind := kindOf(t, err); kind != KindConflict {
		t.Fatalf("second decline: expected conflict, got %s", kind)
	}
}

func TestCancelInvite_KeepsRowAsExpired(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, _, err := svc.Create(project.ID, "cancel@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	if err := svc.Cancel(invite.ID, owner.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var stored models.ProjectInvite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatalf("cancelled invite row should survive: %v", err)
	}
	if stored.Status != constants.InviteStatusExpired {
		t.Fatalf("status = %s, want EXPIRED", stored.Status)
	}
}

func TestCreateInvite_EmailFailureDoesNotRollBack(t *testing.T) {
	db := openTestDB(t)
	clock := &FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := newInviteService(db, clock, &stubNotifier{Fail: true})

	owner := seedUser(t, db, "owner@example.com", constants.UserRoleMember)
	project := seedProject(t, db, "P", owner.ID)

	invite, sent, err := svc.Create(project.ID, "besteffort@x.com", owner.ID)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if sent {
		t.Fatal("send should have been reported as failed")
	}

	var stored models.ProjectInvite
	if err := db.First(&stored, invite.ID).Error; err != nil {
		t.Fatalf("invite should still exist: %v", err)
	}
	if stored.Status != constants.InviteStatusPending {
		t.Fatalf("status = %s, want PENDING", stored.Status)
	}
}

// Package paychan contains integration tests for payment channel behavior.
package paychan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
	xahaudTesting "github.com/LeJamon/goXahaud/internal/testing"
)

const settleDelay = uint32(86_400)

func TestPayChan_XRPHappyPath(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	result := env.Submit(ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build())
	xahaudTesting.RequireSuccess(t, result)

	require.Equal(t, uint64(899_990), env.Balance(owner), "owner pays the amount plus the fee")
	require.Equal(t, uint32(1), env.OwnerCount(owner))

	channelKey := ChannelKey(owner, dest, createSeq)
	channel := ReadChannel(t, env, channelKey)
	require.NotNil(t, channel)
	require.Equal(t, int64(100_000), channel.Amount.Drops())
	require.Equal(t, int64(0), channel.Balance.Drops())
	require.Equal(t, settleDelay, channel.SettleDelay)

	// Destination claims 40k with a valid owner-signed authorization.
	claimAmount := tx.NewXRPAmount(40_000)
	result = env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Amount(claimAmount).
		Signature(owner.SignClaim(channelKey, claimAmount)).
		PublicKey(owner.PublicKeyHex()).
		Build())
	xahaudTesting.RequireSuccess(t, result)

	channel = ReadChannel(t, env, channelKey)
	require.Equal(t, int64(40_000), channel.Balance.Drops())
	require.Equal(t, uint64(1_039_990), env.Balance(dest), "dest gains the claim minus the fee")

	// Owner requests close: the settle delay starts ticking.
	result = env.Submit(ChannelClaim(owner, ChannelID(channelKey)).Close().Build())
	xahaudTesting.RequireSuccess(t, result)

	channel = ReadChannel(t, env, channelKey)
	require.Equal(t, env.CloseTime()+settleDelay, channel.Expiration)

	// After the delay elapses any touch closes the channel and refunds the
	// remainder.
	env.AdvanceTime(settleDelay + 1)
	result = env.Submit(ChannelClaim(owner, ChannelID(channelKey)).Build())
	xahaudTesting.RequireSuccess(t, result)

	require.Nil(t, ReadChannel(t, env, channelKey))
	require.Equal(t, uint64(959_970), env.Balance(owner), "owner gets the unclaimed 60k back")
	require.Equal(t, uint32(0), env.OwnerCount(owner))
}

func TestPayChan_DoubleCloseByDestination(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	claimAmount := tx.NewXRPAmount(40_000)
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(owner.SignClaim(channelKey, claimAmount)).
		PublicKey(owner.PublicKeyHex()).
		Build()))

	// The destination closes immediately, no settle delay.
	ownerBefore := env.Balance(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).Close().Build()))

	require.Nil(t, ReadChannel(t, env, channelKey))
	require.Equal(t, ownerBefore+60_000, env.Balance(owner))
	require.Equal(t, uint32(0), env.OwnerCount(owner))
}

func TestPayChan_OverClaimRejected(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	over := tx.NewXRPAmount(150_000)
	destBefore := env.Balance(dest)
	result := env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(over).
		Signature(owner.SignClaim(channelKey, over)).
		PublicKey(owner.PublicKeyHex()).
		Build())
	require.Equal(t, tx.TecUNFUNDED_PAYMENT, result)

	// Fee charged, nothing else.
	require.Equal(t, destBefore-10, env.Balance(dest))
	channel := ReadChannel(t, env, channelKey)
	require.Equal(t, int64(0), channel.Balance.Drops())
}

func TestPayChan_ClaimNoProgressRejected(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	claimAmount := tx.NewXRPAmount(40_000)
	sig := owner.SignClaim(channelKey, claimAmount)
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(sig).
		PublicKey(owner.PublicKeyHex()).
		Build()))

	// Re-presenting the same claim requests nothing.
	result := env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(sig).
		PublicKey(owner.PublicKeyHex()).
		Build())
	require.Equal(t, tx.TecUNFUNDED_PAYMENT, result)
}

func TestPayChan_DestClaimNeedsSignature(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	result := env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(tx.NewXRPAmount(40_000)).
		Build())
	require.Equal(t, tx.TemBAD_SIGNATURE, result)
}

func TestPayChan_OwnerClaimNeedsNoSignature(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(owner, ChannelID(channelKey)).
		Balance(tx.NewXRPAmount(25_000)).
		Build()))

	require.Equal(t, int64(25_000), ReadChannel(t, env, channelKey).Balance.Drops())
	require.Equal(t, uint64(1_025_000), env.Balance(dest), "dest is credited without sending anything")
}

func TestPayChan_WrongPublicKeyRejected(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	// A valid signature from a key that is not pinned on the channel.
	channelKey := ChannelKey(owner, dest, createSeq)
	claimAmount := tx.NewXRPAmount(40_000)
	result := env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(dest.SignClaim(channelKey, claimAmount)).
		PublicKey(dest.PublicKeyHex()).
		Build())
	require.Equal(t, tx.TemBAD_SIGNER, result)
}

func TestPayChan_FundAfterCancelAfterCloses(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).
			CancelAfter(env.CloseTime()+1_000).
			Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	env.AdvanceTime(1_001)

	balanceBefore := env.Balance(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelFund(owner, ChannelID(channelKey), tx.NewXRPAmount(50_000)).Build()))

	// The fund closed the channel instead: nothing was deducted and the
	// full 100k came back.
	require.Nil(t, ReadChannel(t, env, channelKey))
	require.Equal(t, balanceBefore-10+100_000, env.Balance(owner))
	require.Equal(t, uint32(0), env.OwnerCount(owner))
}

func TestPayChan_FundExpirationFloor(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)

	// An expiration below closeTime + settleDelay is rejected.
	result := env.Submit(ChannelFund(owner, ChannelID(channelKey), tx.NewXRPAmount(1_000)).
		Expiration(env.CloseTime() + 100).
		Build())
	require.Equal(t, tx.TemBAD_EXPIRATION, result)

	// At or above the floor it is accepted.
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelFund(owner, ChannelID(channelKey), tx.NewXRPAmount(1_000)).
			Expiration(env.CloseTime() + settleDelay + 5).
			Build()))

	channel := ReadChannel(t, env, channelKey)
	require.Equal(t, env.CloseTime()+settleDelay+5, channel.Expiration)
	require.Equal(t, int64(101_000), channel.Amount.Drops())
}

func TestPayChan_OnlyOwnerFunds(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	result := env.Submit(ChannelFund(dest, ChannelID(channelKey), tx.NewXRPAmount(1_000)).Build())
	require.Equal(t, tx.TecNO_PERMISSION, result)
}

func TestPayChan_RenewClearsExpiration(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(owner, ChannelID(channelKey)).Close().Build()))
	require.NotZero(t, ReadChannel(t, env, channelKey).Expiration)

	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(owner, ChannelID(channelKey)).Renew().Build()))
	require.Zero(t, ReadChannel(t, env, channelKey).Expiration)

	// Only the owner may renew.
	result := env.Submit(ChannelClaim(dest, ChannelID(channelKey)).Renew().Build())
	require.Equal(t, tx.TecNO_PERMISSION, result)
}

func TestPayChan_DestinationTagRequired(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)
	env.SetAccountFlags(dest, sle.LsfRequireDestTag)

	result := env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TecDST_TAG_NEEDED, result)

	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).
			DestTag(7).
			Build()))
}

func TestPayChan_DepositAuth(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)
	env.SetAccountFlags(dest, sle.LsfDepositAuth)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	claimAmount := tx.NewXRPAmount(40_000)

	// The owner pushing funds at a deposit-auth destination needs preauth.
	result := env.Submit(ChannelClaim(owner, ChannelID(channelKey)).
		Balance(claimAmount).
		Build())
	require.Equal(t, tx.TecNO_PERMISSION, result)

	// The destination itself can always claim.
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(owner.SignClaim(channelKey, claimAmount)).
		PublicKey(owner.PublicKeyHex()).
		Build()))

	// With a preauth entry the owner can push too.
	preauth := &sle.DepositPreauth{Account: dest.ID, Authorize: owner.ID}
	data, err := sle.SerializeDepositPreauth(preauth)
	require.NoError(t, err)
	env.Ledger.Put(keylet.DepositPreauth(dest.ID, owner.ID).Key, data)

	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(owner, ChannelID(channelKey)).
		Balance(tx.NewXRPAmount(60_000)).
		Build()))
}

func TestPayChan_BadPreflight(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	// Channel to self.
	result := env.Submit(
		ChannelCreate(owner, owner, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TemDST_IS_SRC, result)

	// Non-positive amount.
	result = env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(-5), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TemBAD_AMOUNT, result)

	// Close and renew together.
	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))
	channelKey := ChannelKey(owner, dest, createSeq)
	result = env.Submit(ChannelClaim(owner, ChannelID(channelKey)).Close().Renew().Build())
	require.Equal(t, tx.TemMALFORMED, result)
}

func TestPayChan_CreateUnderfunded(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 250_000)
	env.Fund(dest, 1_000_000)

	// reserve(1) is 200k; locking 100k would leave less than that.
	result := env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TecUNFUNDED, result)
}

func TestPayChan_CreateToMissingDestination(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	ghost := xahaudTesting.NewAccount("ghost")
	env.Fund(owner, 1_000_000)

	result := env.Submit(
		ChannelCreate(owner, ghost, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TecNO_DST, result)
}

func TestPayChan_RecipientOwnerDir(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channelKey := ChannelKey(owner, dest, createSeq)
	channel := ReadChannel(t, env, channelKey)
	require.NotNil(t, channel.DestinationNode, "channel is tracked in the recipient's directory")

	// Closing removes both directory references and the entries with them.
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).Close().Build()))
	_, ok := env.Ledger.Get(keylet.OwnerDir(owner.ID).Key)
	require.False(t, ok, "owner directory is gone once empty")
	_, ok = env.Ledger.Get(keylet.OwnerDir(dest.ID).Key)
	require.False(t, ok, "recipient directory is gone once empty")
}

func TestPayChan_RecipientOwnerDirDisabled(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)
	xahaudTesting.WithoutFeature(amendment.FeatureFixPayChanRecipientOwnerDir)(env)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, tx.NewXRPAmount(100_000), settleDelay, owner.PublicKeyHex()).Build()))

	channel := ReadChannel(t, env, ChannelKey(owner, dest, createSeq))
	require.Nil(t, channel.DestinationNode)
}

func TestPayChan_IOUChannel(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	gateway := xahaudTesting.NewAccount("gateway")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)
	env.Fund(gateway, 1_000_000)
	env.SetTrustLine(owner, gateway, "USD", "1000")
	env.SetTrustLine(dest, gateway, "USD", "0")

	usd := func(v string) tx.Amount { return tx.NewIssuedAmount(v, "USD", gateway.Address) }

	createSeq := env.Seq(owner)
	xahaudTesting.RequireSuccess(t, env.Submit(
		ChannelCreate(owner, dest, usd("100"), settleDelay, owner.PublicKeyHex()).Build()))

	// 100 USD locked on the owner's line.
	line := env.TrustLine(owner, gateway, "USD")
	require.Equal(t, 0, line.LockedBalance.Cmp(usd("100")))
	require.Equal(t, uint32(1), line.LockCount)
	require.Equal(t, uint32(1), env.OwnerCount(owner))

	// Destination claims 40 USD.
	channelKey := ChannelKey(owner, dest, createSeq)
	claimAmount := usd("40")
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).
		Balance(claimAmount).
		Signature(owner.SignClaim(channelKey, claimAmount)).
		PublicKey(owner.PublicKeyHex()).
		Build()))

	line = env.TrustLine(owner, gateway, "USD")
	require.Equal(t, 0, line.Balance.Cmp(usd("960")))
	require.Equal(t, 0, line.LockedBalance.Cmp(usd("60")))
	destLine := env.TrustLine(dest, gateway, "USD")
	require.Equal(t, 0, destLine.Balance.Cmp(usd("40")))

	// Closing refunds the locked remainder.
	xahaudTesting.RequireSuccess(t, env.Submit(ChannelClaim(dest, ChannelID(channelKey)).Close().Build()))
	require.Nil(t, ReadChannel(t, env, channelKey))

	line = env.TrustLine(owner, gateway, "USD")
	require.True(t, line.LockedBalance.IsZero())
	require.Equal(t, uint32(0), line.LockCount)
	require.Equal(t, 0, line.Balance.Cmp(usd("960")))
	require.Equal(t, uint32(0), env.OwnerCount(owner))
}

func TestPayChan_IOUDisabledWithoutAmendment(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)
	xahaudTesting.WithoutFeature(amendment.FeaturePaychanAndEscrowForTokens)(env)

	owner := xahaudTesting.NewAccount("owner")
	dest := xahaudTesting.NewAccount("dest")
	gateway := xahaudTesting.NewAccount("gateway")
	env.Fund(owner, 1_000_000)
	env.Fund(dest, 1_000_000)
	env.Fund(gateway, 1_000_000)

	result := env.Submit(
		ChannelCreate(owner, dest, tx.NewIssuedAmount("100", "USD", gateway.Address), settleDelay, owner.PublicKeyHex()).Build())
	require.Equal(t, tx.TemBAD_AMOUNT, result)
}

func TestPayChan_IOUToIssuerRejected(t *testing.T) {
	env := xahaudTesting.NewTestEnv(t)

	gateway := xahaudTesting.NewAccount("gateway")
	dest := xahaudTesting.NewAccount("dest")
	env.Fund(gateway, 1_000_000)
	env.Fund(dest, 1_000_000)

	// An issuer cannot channel its own tokens.
	result := env.Submit(
		ChannelCreate(gateway, dest, tx.NewIssuedAmount("100", "USD", gateway.Address), settleDelay, gateway.PublicKeyHex()).Build())
	require.Equal(t, tx.TemDST_IS_SRC, result)
}

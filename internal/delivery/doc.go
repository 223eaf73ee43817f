// Package delivery fans the fetched calendar results out to their
// destination chats and accounts for the outcome of every attempt.
//
// Destinations are bulkheaded: a missing calendar result or a rejected
// send is recorded against that destination only and never stops the
// loop. After all destinations are attempted, one aggregate diagnostic
// message is sent to the operator chat, if one is configured.
package delivery
